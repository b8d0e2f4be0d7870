// internal/domain/models/profile.go
package models

import "time"

// Profile is the per-user record keyed by the identity provider's subject id.
// It is created on a user's first authenticated request and never deleted in
// normal operation. Display fields are mutable by the subject only; LastLogin
// is maintained by the system.
type Profile struct {
	UID         string    `bson:"_id" json:"uid"`
	DisplayName string    `bson:"display_name" json:"display_name"`
	Email       string    `bson:"email" json:"email"`
	PhotoURL    string    `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	LastLogin   time.Time `bson:"last_login" json:"last_login"`
}
