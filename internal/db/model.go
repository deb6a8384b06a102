package db

import "time"

// Model 是所有内容表共享的主键与时间戳字段；内容删除为硬删除，因此不包含 DeletedAt。
type Model struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key 返回记录主键。
func (m *Model) Key() uint {
	return m.ID
}

// SetKey 设置记录主键。
func (m *Model) SetKey(id uint) {
	m.ID = id
}

// Ordering 为列表类内容提供展示排序，值越小越靠前，允许空洞与重复。
type Ordering struct {
	OrderIndex int `gorm:"not null;default:0;index" json:"order_index"`
}

// GetOrderIndex 返回排序值。
func (o *Ordering) GetOrderIndex() int {
	return o.OrderIndex
}

// SetOrderIndex 设置排序值。
func (o *Ordering) SetOrderIndex(index int) {
	o.OrderIndex = index
}

// SingletonID 是单例内容表唯一一行的固定主键。
const SingletonID uint = 1
