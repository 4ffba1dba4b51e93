package domain

import "time"

// User is a registered marketplace user as served by /auth/me/ and
// /auth/list/. Reference fields (city, gender, document type) carry
// catalog item IDs.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	IsActive       bool      `json:"is_active"`
	IsStaff        bool      `json:"is_staff"`
	IsAdmin        bool      `json:"is_admin"`
	CityID         int64     `json:"city,omitempty"`
	GenderID       int64     `json:"gender,omitempty"`
	DocumentTypeID int64     `json:"document_type,omitempty"`
	DocumentNumber string    `json:"document_number,omitempty"`
	PhoneNumber    string    `json:"phone_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	DateJoined     time.Time `json:"date_joined"`
}

// FullName joins first and last name, tolerating either being empty.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Admin reports whether the user holds staff or admin rights.
func (u User) Admin() bool {
	return u.IsStaff || u.IsAdmin
}

// Credentials is the sign-in form posted to /auth/login/.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the full sign-up form posted to /auth/register/.
// The backend rejects it when the two passwords differ, so the client
// checks that first and never sends a doomed request.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	CityID          int64  `json:"city"`
	GenderID        int64  `json:"gender"`
	DocumentTypeID  int64  `json:"document_type"`
	DocumentNumber  string `json:"document_number"`
	PhoneNumber     string `json:"phone_number"`
	Address         string `json:"address"`
}

// TokenPair is the login response: a short-lived access token, a
// longer-lived refresh token, and the authenticated user's profile.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user"`
}
