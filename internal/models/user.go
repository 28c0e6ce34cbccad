package models

// User is the authenticated account, as returned by the profile endpoint.
type User struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	EmailVerifiedAt *string `json:"email_verified_at"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	Avatar          *string `json:"avatar"`
}

// GetID implements Entity.
func (u User) GetID() int { return u.ID }

// ProfileUpdate is the body of a profile update. An empty password keeps the current one.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}
