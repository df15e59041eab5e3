package models

// User is an API account allowed to read stove data and send commands.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"` // stored lowercased
	PasswordHash string `json:"-"`
}
