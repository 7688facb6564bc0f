package domain

// Scope identifies the data partition every read and write is filtered by.
// The tenant is a per-user partition key resolved once per session, not a
// shared organization.
type Scope struct {
	UserID   string
	TenantID string
}

func (s Scope) IsZero() bool {
	return s.UserID == "" || s.TenantID == ""
}
