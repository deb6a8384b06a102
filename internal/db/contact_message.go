package db

// ContactMessage 保存访客通过联系表单提交的留言。
type ContactMessage struct {
	Model
	Name    string `gorm:"size:120;not null" json:"name"`
	Email   string `gorm:"size:200;not null" json:"email"`
	Subject string `gorm:"size:200;not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`
	Status  string `gorm:"size:20;not null;default:unread;index" json:"status"`
}

// TableName 返回自定义表名。
func (ContactMessage) TableName() string {
	return "contact_messages"
}

const (
	MessageStatusUnread   = "unread"
	MessageStatusRead     = "read"
	MessageStatusReplied  = "replied"
	MessageStatusArchived = "archived"
)
