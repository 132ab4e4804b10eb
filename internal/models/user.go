package models

// User is the identity held by a client session. It comes from an OAuth
// profile exchange or is the fixed demo identity; it is never persisted
// server-side.
type User struct {
	// ID is the identity provider's subject identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	Email string `json:"email"`

	// PhotoURL is the profile picture URL (may be empty).
	PhotoURL string `json:"photoURL"`
}
