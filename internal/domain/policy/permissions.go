// Package policy holds the role to capability mapping and the guard evaluating it.
package policy

import (
	"slices"

	"eatery/internal/domain/entity"
)

// Resource names a kind of protected object.
type Resource string

const (
	ResourceRestaurant Resource = "restaurant"
	ResourceCategory   Resource = "category"
	ResourceMenu       Resource = "menu"
	ResourceReview     Resource = "review"
	ResourceUser       Resource = "user"
	ResourceAudit      Resource = "audit"
)

// Action names an operation on a resource.
type Action string

const (
	ActionCreate        Action = "create"
	ActionRead          Action = "read"
	ActionReadInactive  Action = "readInactive"
	ActionReadOwn       Action = "readOwn"
	ActionUpdate        Action = "update"
	ActionUpdateOwn     Action = "updateOwn"
	ActionDelete        Action = "delete"
	ActionDeleteOwn     Action = "deleteOwn"
	ActionRestore       Action = "restore"
	ActionHardDelete    Action = "hardDelete"
	ActionChangeStatus  Action = "changeStatus"
	ActionModerate      Action = "moderate"
	ActionReassignOwner Action = "reassignOwner"
	ActionAssignRole    Action = "assignRole"
	ActionSetActive     Action = "setActive"
)

// Rules is the literal form of a permission table.
type Rules map[entity.Role]map[Resource][]Action

// Table is an immutable role to resource to action lookup.
type Table struct {
	grants map[entity.Role]map[Resource]map[Action]struct{}
}

// NewTable copies rules into an immutable Table. Unknown roles are ignored.
func NewTable(rules Rules) Table {
	grants := make(map[entity.Role]map[Resource]map[Action]struct{}, len(rules))

	for role, resources := range rules {
		if !role.IsValid() {
			continue
		}

		byResource := make(map[Resource]map[Action]struct{}, len(resources))
		for res, actions := range resources {
			set := make(map[Action]struct{}, len(actions))
			for _, a := range actions {
				set[a] = struct{}{}
			}
			byResource[res] = set
		}
		grants[role] = byResource
	}

	return Table{grants: grants}
}

// Allows reports whether role may perform action on res. Missing entries deny.
func (t Table) Allows(role entity.Role, res Resource, action Action) bool {
	_, ok := t.grants[role][res][action]

	return ok
}

// Actions returns the sorted actions role holds on res.
func (t Table) Actions(role entity.Role, res Resource) []Action {
	set := t.grants[role][res]
	actions := make([]Action, 0, len(set))
	for a := range set {
		actions = append(actions, a)
	}
	slices.Sort(actions)

	return actions
}

var (
	lifecycleActions = []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionRestore}
	everyAction      = []Action{
		ActionCreate, ActionRead, ActionReadInactive, ActionReadOwn, ActionUpdate, ActionUpdateOwn,
		ActionDelete, ActionDeleteOwn, ActionRestore, ActionHardDelete, ActionChangeStatus,
		ActionModerate, ActionReassignOwner, ActionAssignRole, ActionSetActive,
	}
)

// Resources lists every protected resource.
func Resources() []Resource {
	return []Resource{
		ResourceRestaurant, ResourceCategory, ResourceMenu, ResourceReview, ResourceUser, ResourceAudit,
	}
}

// AllActions lists every known action.
func AllActions() []Action {
	return slices.Clone(everyAction)
}

// DefaultRules is the production permission matrix.
func DefaultRules() Rules {
	superAdmin := make(map[Resource][]Action, len(Resources()))
	for _, res := range Resources() {
		superAdmin[res] = AllActions()
	}

	return Rules{
		entity.RoleUser: {
			ResourceRestaurant: {ActionRead},
			ResourceCategory:   {ActionRead},
			ResourceMenu:       {ActionRead},
			ResourceReview:     {ActionCreate, ActionRead, ActionUpdateOwn, ActionDeleteOwn},
			ResourceUser:       {ActionReadOwn},
		},
		entity.RoleStoreManager: {
			ResourceRestaurant: {ActionRead, ActionUpdate},
			ResourceCategory:   lifecycleActions,
			ResourceMenu:       append(slices.Clone(lifecycleActions), ActionChangeStatus),
			ResourceReview:     {ActionRead, ActionModerate},
			ResourceUser:       {ActionReadOwn},
		},
		entity.RoleAdmin: {
			ResourceRestaurant: append(slices.Clone(lifecycleActions), ActionChangeStatus),
			ResourceCategory:   lifecycleActions,
			ResourceMenu:       append(slices.Clone(lifecycleActions), ActionChangeStatus),
			ResourceReview:     {ActionRead, ActionModerate},
			ResourceUser:       {ActionReadOwn},
		},
		entity.RoleSuperAdmin: superAdmin,
	}
}

// DefaultTable builds the production permission table.
func DefaultTable() Table {
	return NewTable(DefaultRules())
}
