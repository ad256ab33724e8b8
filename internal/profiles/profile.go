package profiles

import "time"

// Profile carries the public-facing fitness data attached to a user
// account. Body measurements are optional and owner-editable; IsPublic
// controls whether other users (and anonymous visitors) can see the
// profile and its workout history.
type Profile struct {
	UserID            int       `json:"user_id"`
	Username          string    `json:"username"`
	IsPublic          bool      `json:"is_public"`
	Gender            *string   `json:"gender,omitempty"`
	Weight            *float64  `json:"weight,omitempty"`
	Height            *float64  `json:"height,omitempty"`
	BodyFatPercentage *float64  `json:"body_fat_percentage,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type UpdateParams struct {
	IsPublic          bool     `json:"is_public"`
	Gender            *string  `json:"gender"`
	Weight            *float64 `json:"weight"`
	Height            *float64 `json:"height"`
	BodyFatPercentage *float64 `json:"body_fat_percentage"`
}
