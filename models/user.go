package models

import "time"

type UserStatus string

const (
	UserStatusNew       UserStatus = "NEW"
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusInactive  UserStatus = "INACTIVE"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusNew, UserStatusActive, UserStatusSuspended, UserStatusInactive:
		return true
	}
	return false
}

type Wallet struct {
	ID            int     `json:"id"`
	AccountNumber string  `json:"account_number"`
	BankName      string  `json:"bank_name,omitempty"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency,omitempty"`
}

type Subscription struct {
	ID        int        `json:"id"`
	Plan      string     `json:"plan"`
	Status    string     `json:"status"`
	StartsAt  *time.Time `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// User is a platform customer as returned by the user-management endpoints.
type User struct {
	ID           int           `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Username     string        `json:"username,omitempty"`
	AccountType  string        `json:"account_type,omitempty"`
	Status       UserStatus    `json:"status"`
	KYCVerified  bool          `json:"kyc_verified"`
	KYBVerified  bool          `json:"kyb_verified"`
	IsVerified   bool          `json:"is_verified"`
	Avatar       *string       `json:"avatar"`
	Wallet       *Wallet       `json:"wallet,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type UserStats struct {
	TotalUsers     int `json:"total_users"`
	ActiveUsers    int `json:"active_users"`
	NewUsers       int `json:"new_users"`
	SuspendedUsers int `json:"suspended_users"`
	InactiveUsers  int `json:"inactive_users"`
	VerifiedUsers  int `json:"verified_users"`
}

type CreateUserRequest struct {
	FirstName string  `validate:"required,max=100"`
	LastName  string  `validate:"required,max=100"`
	Email     string  `validate:"required,email"`
	Phone     string  `validate:"required,max=20"`
	Password  string  `validate:"required,min=8"`
	Avatar    *Upload
}

func (r CreateUserRequest) Form() Form {
	f := NewForm()
	f.Set("first_name", r.FirstName)
	f.Set("last_name", r.LastName)
	f.Set("email", r.Email)
	f.Set("phone", r.Phone)
	f.Set("password", r.Password)
	f.Attach("avatar", r.Avatar)
	return f
}

type UpdateUserRequest struct {
	ID        int     `validate:"required,gt=0"`
	FirstName string  `validate:"omitempty,max=100"`
	LastName  string  `validate:"omitempty,max=100"`
	Email     string  `validate:"omitempty,email"`
	Phone     string  `validate:"omitempty,max=20"`
	Avatar    *Upload
}

func (r UpdateUserRequest) Form() Form {
	f := NewForm()
	f.SetIfNotEmpty("first_name", r.FirstName)
	f.SetIfNotEmpty("last_name", r.LastName)
	f.SetIfNotEmpty("email", r.Email)
	f.SetIfNotEmpty("phone", r.Phone)
	f.Attach("avatar", r.Avatar)
	return f
}

type UpdateUserStatusRequest struct {
	ID     int        `json:"-" validate:"required,gt=0"`
	Status UserStatus `json:"status" validate:"required,oneof=NEW ACTIVE SUSPENDED INACTIVE"`
	Reason string     `json:"reason,omitempty" validate:"max=500"`
}
