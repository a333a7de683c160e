package model

type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleUser  UserRole = "user"
)

type PortalAccessType string

const (
	PortalAccessPublic        PortalAccessType = "public"
	PortalAccessAuthenticated PortalAccessType = "authenticated"
)

type SessionKind string

const (
	// SessionKindTemporary is a short-lived single-use token exchanged for a
	// standard session.
	SessionKindTemporary SessionKind = "temporary"
	SessionKindStandard  SessionKind = "standard"
)
