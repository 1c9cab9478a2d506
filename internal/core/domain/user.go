package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidTimezone    = errors.New("invalid IANA timezone")
	ErrInvalidPhone       = errors.New("invalid phone number (must be E.164, e.g. +15551234567)")
	ErrProFeature         = errors.New("feature requires a pro subscription")
)

const (
	TierFree = "free"
	TierPro  = "pro"
)

type User struct {
	ID           string `json:"id" db:"id"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`

	Timezone string `json:"timezone" db:"timezone"`
	Phone    string `json:"phone,omitempty" db:"phone"`
	Tier     string `json:"tier" db:"tier"`

	StripeCustomerID string `json:"-" db:"stripe_customer_id"`

	CurrentStreak int `json:"current_streak" db:"current_streak"`
	BestStreak    int `json:"best_streak" db:"best_streak"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email string) (*User, error) {
	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Email:     strings.ToLower(email),
		Timezone:  "UTC",
		Tier:      TierFree,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// SetTimezone validates the name against the host IANA database.
func (u *User) SetTimezone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ErrInvalidTimezone
	}

	u.Timezone = name
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Location resolves the user's timezone, falling back to UTC when the
// stored name is no longer loadable on this host.
func (u *User) Location() *time.Location {
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (u *User) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if !isValidPhone(phone) {
		return ErrInvalidPhone
	}

	u.Phone = phone
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) IsPro() bool {
	return u.Tier == TierPro
}

func (u *User) Upgrade(stripeCustomerID string) {
	u.Tier = TierPro
	if stripeCustomerID != "" {
		u.StripeCustomerID = stripeCustomerID
	}
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) Downgrade() {
	u.Tier = TierFree
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) UpdateStreaks(current, best int) {
	u.CurrentStreak = current
	u.BestStreak = best
	u.UpdatedAt = time.Now().UTC()
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isValidPhone(phone string) bool {
	if len(phone) < 8 || len(phone) > 16 || phone[0] != '+' {
		return false
	}
	for _, r := range phone[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
