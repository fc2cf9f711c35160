package domain

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
)

type RoomType struct {
	Model
	Name          string `json:"name" gorm:"size:255;not null" binding:"required,max=255"`
	Description   string `json:"description" gorm:"type:text"`
	PricePerNight Money  `json:"price_per_night" gorm:"type:numeric(9,2);not null"`
	Capacity      int    `json:"capacity" binding:"required,min=1"`
}

type Room struct {
	Model
	HotelID    int64      `json:"hotel" gorm:"not null;index" binding:"required"`
	RoomTypeID int64      `json:"room_type" gorm:"not null;index" binding:"required"`
	RoomNumber string     `json:"room_number" gorm:"size:15;uniqueIndex;not null" binding:"required,max=15"`
	Status     RoomStatus `json:"status" gorm:"size:10;not null;default:available"`

	Hotel    *Hotel    `json:"-" gorm:"foreignKey:HotelID"`
	RoomType *RoomType `json:"-" gorm:"foreignKey:RoomTypeID"`
}

func (r *Room) IsOccupied() bool {
	return r.Status == RoomOccupied
}
