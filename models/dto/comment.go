package dto

// CreateCommentRequest 定义了创建评论的请求数据结构
// - 所属帖子 ID 取自路径参数，作者身份取自用户上下文
type CreateCommentRequest struct {
	Content string `json:"content" form:"content" binding:"required,max=2000"` // 评论内容，必填，最大2000字符
}

// ListCommentsRequest 定义分页查询帖子评论的请求数据结构
type ListCommentsRequest struct {
	Page     int `json:"page" form:"page" binding:"omitempty,gte=1"`                  // 页码，从1开始，缺省1
	PageSize int `json:"page_size" form:"page_size" binding:"omitempty,gt=0,lte=100"` // 每页数量，缺省20
}
