package models

import "time"

// User represents a user account in the system.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// PasswordHash is the stored bcrypt digest. Never expose this to the client.
	PasswordHash string `json:"-"`
	// ReferralCode is the code of the party who referred this user, not the
	// user's own shareable code. Querying by it answers "who did X refer".
	ReferralCode string    `json:"referralCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the client-facing projection of a user record.
type Profile struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	ReferralCode string     `json:"referral_code"`
	Timestamp    *time.Time `json:"timestamp"`
}

// NewProfile builds the response projection for a user.
func (u User) NewProfile() Profile {
	p := Profile{
		Name:         u.Name,
		Email:        u.Email,
		ReferralCode: u.ReferralCode,
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		p.Timestamp = &t
	}
	return p
}
