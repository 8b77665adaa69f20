package models

// User is an operator account. Its ID is the actor recorded for operator-triggered checks.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
