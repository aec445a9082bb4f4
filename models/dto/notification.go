package dto

// ListNotificationsRequest 定义分页查询当前用户通知的请求数据结构
type ListNotificationsRequest struct {
	Page     int `json:"page" form:"page" binding:"omitempty,gte=1"`                  // 页码，从1开始，缺省1
	PageSize int `json:"page_size" form:"page_size" binding:"omitempty,gt=0,lte=100"` // 每页数量，缺省20
}
