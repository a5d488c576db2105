package models

import "time"

// User is the profile row kept next to the Supabase auth user.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name,omitempty"`
	Role      string     `json:"role"`
	TimeZone  string     `json:"time_zone,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AuthUser is the caller identity resolved from a verified Supabase access token.
type AuthUser struct {
	ID          string
	Email       string
	Role        string
	AccessToken string
}

func (u AuthUser) HasRole(roles ...string) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
