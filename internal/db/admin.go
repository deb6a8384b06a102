package db

import "time"

// AdminIdentity 是后台账号的认证身份，只负责"你是谁"。
type AdminIdentity struct {
	Model
	Email        string `gorm:"size:200;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	LastLoginAt  *time.Time
}

// TableName 返回自定义表名。
func (AdminIdentity) TableName() string {
	return "admin_identities"
}

// AdminProfile 是后台授权记录，必须存在且 IsActive 才能进入管理面板。
type AdminProfile struct {
	Model
	IdentityID uint   `gorm:"uniqueIndex;not null"`
	Email      string `gorm:"size:200;not null"`
	Name       string `gorm:"size:120;not null"`
	Role       string `gorm:"size:32;not null;default:admin"`
	IsActive   bool   `gorm:"not null"`
}

// TableName 返回自定义表名。
func (AdminProfile) TableName() string {
	return "admin_profiles"
}

// AuthSession 记录一次登录产生的会话，登出时写入 RevokedAt。
type AuthSession struct {
	Model
	TokenID    string `gorm:"size:64;uniqueIndex;not null"`
	IdentityID uint   `gorm:"index;not null"`
	ExpiresAt  time.Time
	RevokedAt  *time.Time
}

// TableName 返回自定义表名。
func (AuthSession) TableName() string {
	return "auth_sessions"
}
