package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuthProvider string

const (
	ProviderEmail     AuthProvider = "email"
	ProviderGoogle    AuthProvider = "google"
	ProviderAnonymous AuthProvider = "anonymous"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

// User is a registered account (email or Google). Guest identities never
// reach this table; see Guest.
type User struct {
	Id            uuid.UUID
	Email         string
	PasswordHash  *string // nil for OAuth-only accounts
	FullName      string
	Provider      AuthProvider
	Status        UserStatus
	EmailVerified bool
	AvatarURL     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Guest is a fully local anonymous identity. Its id carries a coarse
// timestamp suffix and it lives only in the in-memory guest store; guest
// sessions suppress lookups against the user table.
type Guest struct {
	Id        string
	Name      string
	CreatedAt time.Time
}

type TokenPurpose string

const (
	TokenPurposeVerifyEmail   TokenPurpose = "verify_email"
	TokenPurposeResetPassword TokenPurpose = "reset_password"
)

// EmailVerificationToken is a short-lived OTP mailed to the account
// address. Both sign-up verification and password reset prove control of
// the mailbox this way; Purpose keeps the two flows apart.
type EmailVerificationToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Token     string
	Purpose   TokenPurpose
	ExpiresAt time.Time
	CreatedAt time.Time
}

type UserRefreshToken struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	IpAddress string
	UserAgent string
}

// StudyActivity is one recorded learning event, written by the activity
// consumer from the in-process event bus.
type StudyActivity struct {
	Id         uuid.UUID
	UserId     string
	Action     string // "notes_generated" | "syllabus_analyzed" | "tutor_turn"
	ClassLevel string
	Subject    string
	Topic      string
	CreatedAt  time.Time
}
