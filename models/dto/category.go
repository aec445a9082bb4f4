package dto

// CreateCategoryRequest 定义了创建分类的请求数据结构
type CreateCategoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=100"` // 分类名，必填，唯一，最大100字符
}
