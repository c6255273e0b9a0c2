package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values carried by User.Role. Role is the single authorization axis.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

type User struct {
	gorm.Model
	Name           string     `json:"name" gorm:"default:''"`
	Email          string     `json:"email" gorm:"unique;not null"`
	Password       string     `json:"-" gorm:"not null"`
	Role           string     `json:"role" gorm:"default:'student'"` // admin, teacher, student
	Phone          string     `json:"phone" gorm:"default:''"`
	Address        string     `json:"address"`
	Bio            string     `json:"bio"`
	ProfilePicture string     `json:"profile_picture"` // stored path, blob lives on disk
	DateOfBirth    *time.Time `json:"date_of_birth"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	IsSuperuser    bool       `json:"is_superuser" gorm:"default:false"`
	LastLogin      *time.Time `json:"last_login"`
}

// BeforeSave keeps the privileged-account invariant: a superuser always
// carries the admin role, no matter what the caller set.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsSuperuser && u.Role != RoleAdmin {
		u.Role = RoleAdmin
	}
	return nil
}

// OwnerID lets the policy engine treat a user row as owned by itself.
func (u User) OwnerID() uint {
	return u.ID
}
