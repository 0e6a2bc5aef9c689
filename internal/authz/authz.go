// Package authz gates content mutations behind a single shared check
// instead of per-call-site owner comparisons.
package authz

type Role string
type Action string

const (
	RoleVisitor Role = "visitor"
	RoleOwner   Role = "owner"
)

const (
	ActionRead Action = "read"
	ActionEdit Action = "edit"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleVisitor:
		return action == ActionRead
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleVisitor, RoleOwner:
		return Role(role)
	default:
		return RoleVisitor
	}
}

// Context carries the resolved authorization state for one request.
// Mutation paths call CanEdit exactly once, at the reconciler boundary.
type Context struct {
	ViewerID string
	Role     Role
}

func Owner(viewerID string) Context {
	return Context{ViewerID: viewerID, Role: RoleOwner}
}

func Visitor(viewerID string) Context {
	return Context{ViewerID: viewerID, Role: RoleVisitor}
}

func (c Context) CanEdit() bool {
	return Can(c.Role, ActionEdit)
}
