package models

import "time"

// Account is one registered identity. The verification token and reset OTP
// live on the row itself; each pair is either both set or both NULL.
type Account struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Avatar       string `json:"avatar,omitempty"`
	Currency     string `json:"currency"`

	EmailVerified bool `json:"email_verified"`

	// outstanding email verification, if any
	VerifyToken    *string    `json:"-"`
	VerifyTokenExp *time.Time `json:"-"`

	// outstanding password-reset OTP, if any
	ResetOTP    *string    `json:"-"`
	ResetOTPExp *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Profile is the sanitized view returned to clients after login/me.
type Profile struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
	Currency string `json:"currency"`
}

func (a *Account) Profile() Profile {
	return Profile{
		ID:       a.ID,
		Name:     a.Name,
		Email:    a.Email,
		Avatar:   a.Avatar,
		Currency: a.Currency,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
