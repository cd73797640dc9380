package models

import "time"

// UserModel is an account able to author posts or sign in to the admin area.
type UserModel struct {
	Base
	Username      string     `json:"username"        gorm:"uniqueIndex;size:191;not null"`
	Name          string     `json:"name"`
	Mail          string     `json:"mail"`
	Password      string     `json:"-"`
	IsAdmin       bool       `json:"is_admin"        gorm:"default:false"`
	LastLoginTime *time.Time `json:"last_login_time"`
}

func (UserModel) TableName() string { return "users" }
