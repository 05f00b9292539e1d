package domain

// SubjectType differentiates ordinary user sessions from the system admin
// session. The admin is a distinct principal, never backed by a users row.
type SubjectType string

const (
	SubjectTypeUser  SubjectType = "USER"
	SubjectTypeAdmin SubjectType = "ADMIN"
)

// SessionClaims is the server-held claim set addressed by a session token.
type SessionClaims struct {
	UserID  string `json:"user_id,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}
