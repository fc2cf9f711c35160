package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_Superuser(t *testing.T) {
	admin := NewActor(1, "root@example.com", true, true)

	assert.True(t, Allow(admin, OpCreate, ResourceBooking))
	assert.True(t, Allow(admin, OpHardDelete, ResourceUser))
	assert.True(t, Allow(admin, Operation("anything"), ResourceRoom))
}

func TestAllow_CapabilityTable(t *testing.T) {
	clerk := NewActor(2, "clerk@example.com", true, false, "view_booking", "add_booking")

	tests := []struct {
		op       Operation
		resource Resource
		want     bool
	}{
		{OpList, ResourceBooking, true},
		{OpRetrieve, ResourceBooking, true},
		{OpCreate, ResourceBooking, true},
		{OpReport, ResourceBooking, true},
		{OpUpdate, ResourceBooking, false},
		{OpDestroy, ResourceBooking, false},
		{OpReactivate, ResourceBooking, false},
		{OpList, ResourceRoom, false},
		{OpReport, ResourceRoom, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.op)+"_"+string(tt.resource), func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(clerk, tt.op, tt.resource))
		})
	}
}

func TestAllow_FailsClosed(t *testing.T) {
	everything := make([]string, 0)
	for _, c := range Catalog() {
		everything = append(everything, c.Codename)
	}
	staff := NewActor(3, "s@example.com", true, false, everything...)

	assert.False(t, Allow(staff, OpListDeleted, ResourceUser))
	assert.False(t, Allow(staff, OpRestore, ResourceHotel))
	assert.False(t, Allow(staff, OpHardDelete, ResourceBooking))
	assert.False(t, Allow(staff, Operation("partial_update"), ResourceGuest))
	assert.False(t, Allow(nil, OpList, ResourceGuest))
}

func TestCatalog(t *testing.T) {
	catalog := Catalog()
	assert.Len(t, catalog, len(resources)*4+1)

	codes := map[string]bool{}
	for _, c := range catalog {
		codes[c.Codename] = true
	}
	assert.True(t, codes["add_booking"])
	assert.True(t, codes["view_roomtype"])
	assert.True(t, codes[CapChangeSuperuser])
}

func TestActor_CanGrantSuperuser(t *testing.T) {
	assert.True(t, NewActor(1, "", false, true).CanGrantSuperuser())
	assert.True(t, NewActor(2, "", false, false, CapChangeSuperuser).CanGrantSuperuser())
	assert.False(t, NewActor(3, "", true, false, "change_user").CanGrantSuperuser())

	var nobody *Actor
	assert.False(t, nobody.CanGrantSuperuser())
	assert.False(t, nobody.Has("view_room"))
}
