package domain

// Hotel, Staff and Guest are descriptive records. Their only rules are the
// field constraints expressed in the binding tags.

type Hotel struct {
	Model
	Name         string `json:"name" gorm:"size:255;not null" binding:"required,max=255"`
	Address      string `json:"address" gorm:"size:255" binding:"required,max=255"`
	Village      string `json:"village" gorm:"size:255" binding:"max=255"`
	District     string `json:"district" gorm:"size:255" binding:"max=255"`
	Province     string `json:"province" gorm:"size:255" binding:"max=255"`
	Phone        string `json:"phone" gorm:"size:20" binding:"required,max=20"`
	Email        string `json:"email" gorm:"size:254" binding:"required,email"`
	Stars        int    `json:"stars" binding:"required,min=1,max=5"`
	CheckInTime  string `json:"check_in_time" gorm:"size:5" binding:"required,datetime=15:04"`
	CheckOutTime string `json:"check_out_time" gorm:"size:5" binding:"required,datetime=15:04"`
}

type Staff struct {
	Model
	HotelID     int64  `json:"hotel" gorm:"not null;index" binding:"required"`
	FirstName   string `json:"first_name" gorm:"size:255" binding:"required,max=255"`
	LastName    string `json:"last_name" gorm:"size:255" binding:"required,max=255"`
	Position    string `json:"position" gorm:"size:255" binding:"required,max=255"`
	Salary      Money  `json:"salary" gorm:"type:numeric(10,2)"`
	DateOfBirth *Date  `json:"date_of_birth" binding:"required"`
	Phone       string `json:"phone" gorm:"size:20" binding:"required,max=20"`
	Email       string `json:"email" gorm:"size:254" binding:"required,email"`
	HireDate    *Date  `json:"hire_date" binding:"required"`

	Hotel *Hotel `json:"-" gorm:"foreignKey:HotelID"`
}

// TableName avoids the "staffs" default.
func (Staff) TableName() string { return "staff" }

type Guest struct {
	Model
	FirstName   string `json:"first_name" gorm:"size:255" binding:"required,max=255"`
	LastName    string `json:"last_name" gorm:"size:255" binding:"required,max=255"`
	DateOfBirth *Date  `json:"date_of_birth" binding:"required"`
	Address     string `json:"address" gorm:"size:255" binding:"required,max=255"`
	Phone       string `json:"phone" gorm:"size:20" binding:"required,max=20"`
	Email       string `json:"email" gorm:"size:254" binding:"required,email"`
}

func (g *Guest) FullName() string {
	return g.FirstName + " " + g.LastName
}
