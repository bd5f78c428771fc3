package models

// User is the workflow identity attached to inventories (creator, validator).
// Accounts themselves live in the identity service; only the fields the
// documents need are carried here.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}
