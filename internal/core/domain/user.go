package domain

// User represents an application user who can own trips and participate in them.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Email        string `json:"email"`
	Name         string `json:"name"`
	PictureURL   string `json:"pictureURL,omitempty"`
	PasswordHash string `json:"-"` // Never serialized
	AuditFields
}
