package models

// User mirrors the users table.
type User struct {
	UserID       string `json:"userID"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PictureURL   string `json:"pictureURL"`
	PasswordHash string `json:"-"`
	AuditFields
}
