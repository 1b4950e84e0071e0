package models

// Role is the access tier of a staff account.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleReader Role = "reader"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleReader
}

// User is a staff account. PasswordHash never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	UserName     string `json:"username"`
	PasswordHash string `json:"-"`
	Photo        string `json:"base64Photo"`
	Role         Role   `json:"role"`
}
