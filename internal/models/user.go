package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleJE      UserRole = "JE"
	RoleSDE     UserRole = "SDE"
	RoleXEN     UserRole = "XEN"
	RoleOfficer UserRole = "OFFICER"
	RoleViewer  UserRole = "VIEWER"
)

// OfficerRoles are the roles allowed to create assets, projects and files.
var OfficerRoles = []UserRole{RoleAdmin, RoleJE, RoleSDE, RoleXEN, RoleOfficer}

func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleJE, RoleSDE, RoleXEN, RoleOfficer, RoleViewer:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string   `gorm:"size:255" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
