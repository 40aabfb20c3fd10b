package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	UserID    uint      `gorm:"primaryKey" json:"id"`
	Username  string    `json:"username" gorm:"unique;not null" validate:"required"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty" gorm:"not null"`
	CreatedAt time.Time `json:"-" gorm:"autoCreateTime"`
}

// UserProfile carries the account role. A doctor account links to exactly
// one Doctor record; the link stays null for patients.
type UserProfile struct {
	ProfileID    uint   `gorm:"primaryKey" json:"id"`
	UserID       uint   `json:"user_id" gorm:"unique;not null"`
	Mobile       string `json:"mobile" gorm:"index"`
	Location     string `json:"location"`
	ProfilePhoto string `json:"profile_photo" gorm:"type:text"`
	IsDoctor     bool   `json:"is_doctor"`
	DoctorID     *uint  `json:"doctor_id" gorm:"unique"`
}

// AccessClaims are embedded in short-lived access tokens.
type AccessClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	DoctorID *uint  `json:"doctor_id,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims are embedded in long-lived refresh tokens.
type RefreshClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}
