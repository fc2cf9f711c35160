// Package access decides whether an actor may perform an operation on a
// resource type. The decision is a pure table lookup; where capabilities come
// from (groups in the database) is the caller's concern.
package access

import "fmt"

type Action string

const (
	ActionView   Action = "view"
	ActionAdd    Action = "add"
	ActionChange Action = "change"
	ActionDelete Action = "delete"
)

type Resource string

const (
	ResourceUser       Resource = "user"
	ResourceGroup      Resource = "group"
	ResourcePermission Resource = "permission"
	ResourceHotel      Resource = "hotel"
	ResourceStaff      Resource = "staff"
	ResourceGuest      Resource = "guest"
	ResourceRoomType   Resource = "roomtype"
	ResourceRoom       Resource = "room"
	ResourceBooking    Resource = "booking"
	ResourcePayment    Resource = "payment"
)

// Operation is the kind of endpoint being called.
type Operation string

const (
	OpList        Operation = "list"
	OpRetrieve    Operation = "retrieve"
	OpCreate      Operation = "create"
	OpUpdate      Operation = "update"
	OpDestroy     Operation = "destroy"
	OpListDeleted Operation = "soft_delete"
	OpRestore     Operation = "restore"
	OpHardDelete  Operation = "hard_delete"
	OpReport      Operation = "report"
	OpReactivate  Operation = "reactivate"
)

// CapChangeSuperuser lets a non-superuser grant staff and superuser flags.
const CapChangeSuperuser = "change_is_superuser"

var operationActions = map[Operation]Action{
	OpList:     ActionView,
	OpRetrieve: ActionView,
	OpCreate:   ActionAdd,
	OpUpdate:   ActionChange,
	OpDestroy:  ActionDelete,
}

var resourceOperations = map[Resource]map[Operation]Action{
	ResourceBooking: {
		OpReport:     ActionView,
		OpReactivate: ActionChange,
	},
}

var resources = []Resource{
	ResourceUser, ResourceGroup, ResourcePermission, ResourceHotel, ResourceStaff,
	ResourceGuest, ResourceRoomType, ResourceRoom, ResourceBooking, ResourcePayment,
}

// Actor is the authenticated caller together with the capabilities granted
// through its groups.
type Actor struct {
	UserID       int64
	Email        string
	IsStaff      bool
	IsSuperuser  bool
	capabilities map[string]struct{}
}

func NewActor(userID int64, email string, isStaff, isSuperuser bool, capabilities ...string) *Actor {
	a := &Actor{
		UserID:       userID,
		Email:        email,
		IsStaff:      isStaff,
		IsSuperuser:  isSuperuser,
		capabilities: make(map[string]struct{}, len(capabilities)),
	}
	for _, c := range capabilities {
		a.capabilities[c] = struct{}{}
	}
	return a
}

func (a *Actor) Has(capability string) bool {
	if a == nil {
		return false
	}
	_, ok := a.capabilities[capability]
	return ok
}

// CanGrantSuperuser reports whether the actor may set is_staff and is_superuser.
func (a *Actor) CanGrantSuperuser() bool {
	if a == nil {
		return false
	}
	return a.IsSuperuser || a.Has(CapChangeSuperuser)
}

// Codename builds the capability name for an action on a resource, e.g. "add_booking".
func Codename(action Action, resource Resource) string {
	return fmt.Sprintf("%s_%s", action, resource)
}

// ActionFor maps an operation on a resource to the action it requires. The
// second result is false for operations outside the table.
func ActionFor(op Operation, resource Resource) (Action, bool) {
	if action, ok := operationActions[op]; ok {
		return action, true
	}
	if extra, ok := resourceOperations[resource]; ok {
		action, ok := extra[op]
		return action, ok
	}
	return "", false
}

// Allow is the policy: superusers may do anything; everyone else needs the
// capability matching the operation. Unknown operations are denied.
func Allow(actor *Actor, op Operation, resource Resource) bool {
	if actor == nil {
		return false
	}
	if actor.IsSuperuser {
		return true
	}
	action, ok := ActionFor(op, resource)
	if !ok {
		return false
	}
	return actor.Has(Codename(action, resource))
}

type Capability struct {
	Codename string
	Name     string
	Resource Resource
}

// Catalog lists every capability that can be assigned to a group.
func Catalog() []Capability {
	actions := []Action{ActionAdd, ActionChange, ActionDelete, ActionView}
	out := make([]Capability, 0, len(resources)*len(actions)+1)
	for _, r := range resources {
		for _, a := range actions {
			out = append(out, Capability{
				Codename: Codename(a, r),
				Name:     fmt.Sprintf("Can %s %s", a, r),
				Resource: r,
			})
		}
	}
	out = append(out, Capability{
		Codename: CapChangeSuperuser,
		Name:     "Can change staff and superuser flags",
		Resource: ResourceUser,
	})
	return out
}
