// Package authz is the capability check consumed by every mutating docket
// operation. Authentication (who the principal is) happens in the platform
// middleware; this package answers whether that principal may perform a
// specific action.
package authz

import (
	"context"

	id "plenario/pkg/domain"
)

// Action names a mutating docket operation.
type Action string

const (
	ActionRegisterResource  Action = "resource:register"
	ActionSetResourceStatus Action = "resource:set_status"
	ActionRecordJudgment    Action = "resource:record_judgment"
	ActionClassifyResource  Action = "resource:classify"
	ActionCreateSession     Action = "session:create"
	ActionEditAgenda        Action = "session:edit_agenda"
	ActionPublishAgenda     Action = "session:publish_agenda"
	ActionCompleteJudgment  Action = "session:complete_judgment"
	ActionFinalizeMinutes   Action = "session:finalize_minutes"
	ActionIssuePublication  Action = "publication:issue"
)

// Authorizer decides whether a principal may perform an action. A false
// result is surfaced as an authorization failure by the calling service,
// never silently ignored.
type Authorizer interface {
	CanAct(ctx context.Context, principal id.UserID, action Action) (bool, error)
}

// AllowAll grants every action. Development and test default.
type AllowAll struct{}

func (AllowAll) CanAct(context.Context, id.UserID, Action) (bool, error) {
	return true, nil
}

// RoleAuthorizer grants actions per role with a static role assignment.
type RoleAuthorizer struct {
	grants map[string]map[Action]bool
	roles  map[id.UserID][]string
}

// NewRoleAuthorizer builds an authorizer from role→actions grants and a
// principal→roles assignment.
func NewRoleAuthorizer(grants map[string][]Action, roles map[id.UserID][]string) *RoleAuthorizer {
	byRole := make(map[string]map[Action]bool, len(grants))
	for role, actions := range grants {
		set := make(map[Action]bool, len(actions))
		for _, action := range actions {
			set[action] = true
		}
		byRole[role] = set
	}
	return &RoleAuthorizer{grants: byRole, roles: roles}
}

func (a *RoleAuthorizer) CanAct(_ context.Context, principal id.UserID, action Action) (bool, error) {
	for _, role := range a.roles[principal] {
		if a.grants[role][action] {
			return true, nil
		}
	}
	return false, nil
}
