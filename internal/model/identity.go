package model

type Role string

const (
	RoleGuest  Role = "guest"
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

// Identity is a session-local user. It is never written to the durable
// document; the store adapter scrubs it from every write.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	FirmName string `json:"firmName,omitempty"`
}
