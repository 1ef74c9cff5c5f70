package models

import (
	"time"

	"swiftlink/internal/domain"
)

type User struct {
	ID                 domain.ID    `json:"id"`
	FullName           string       `json:"fullName"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	NationalID         string       `json:"-"`
	PasswordHash       string       `json:"-"`
	Role               domain.Role  `json:"role"`
	PhoneVerified      bool         `json:"phoneVerified"`
	NationalIDVerified bool         `json:"nationalIdVerified"`
	Balance            domain.Cents `json:"balance"`
	OTPCode            string       `json:"-"`
	OTPExpiry          *time.Time   `json:"-"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// Profile is what /auth/me returns. NationalID is filled only for the
// owner or an admin.
type Profile struct {
	ID                 domain.ID    `json:"id"`
	FullName           string       `json:"fullName"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	NationalID         string       `json:"nationalId,omitempty"`
	Role               domain.Role  `json:"role"`
	PhoneVerified      bool         `json:"phoneVerified"`
	NationalIDVerified bool         `json:"nationalIdVerified"`
	Balance            domain.Cents `json:"balance"`
	CreatedAt          time.Time    `json:"createdAt"`
}

func (u *User) ToProfile(withNationalID bool) Profile {
	p := Profile{
		ID:                 u.ID,
		FullName:           u.FullName,
		Email:              u.Email,
		Phone:              u.Phone,
		Role:               u.Role,
		PhoneVerified:      u.PhoneVerified,
		NationalIDVerified: u.NationalIDVerified,
		Balance:            u.Balance,
		CreatedAt:          u.CreatedAt,
	}
	if withNationalID {
		p.NationalID = u.NationalID
	}
	return p
}

func (u *User) Public() PartyInfo {
	return PartyInfo{FullName: u.FullName, Phone: u.Phone}
}
