package entity

import "time"

// Profile holds the public-facing extras attached to a user account.
type Profile struct {
	UserID      string
	Bio         string
	AvatarURL   string
	SocialLinks map[string]string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
