package vo

import (
	"time"
)

// NotificationVO 定义了通知的响应数据结构
type NotificationVO struct {
	ID        uint64    `json:"id"`         // 通知ID
	Message   string    `json:"message"`    // 通知文案
	CreatedAt time.Time `json:"created_at"` // 创建时间
}

// ListNotificationsVO 定义通知分页的响应结构
type ListNotificationsVO struct {
	Notifications []*NotificationVO `json:"notifications"` // 当前页通知列表
	Total         int64             `json:"total"`         // 符合条件的总记录数
}
