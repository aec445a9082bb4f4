package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// PostVOWrapper 对应 response.APIResponse[vo.PostVO]
type PostVOWrapper struct {
	Code    int    `json:"code" example:"0"`
	Message string `json:"message,omitempty" example:"success"`
	Data    PostVO `json:"data"`
}

// ListPostsByCursorVOWrapper 对应 response.APIResponse[vo.ListPostsByCursorVO]
type ListPostsByCursorVOWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    ListPostsByCursorVO `json:"data"`
}

// SearchPostsVOWrapper 对应 response.APIResponse[vo.SearchPostsVO]
type SearchPostsVOWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    SearchPostsVO `json:"data"`
}

// CommentVOWrapper 对应 response.APIResponse[vo.CommentVO]
type CommentVOWrapper struct {
	Code    int       `json:"code" example:"0"`
	Message string    `json:"message,omitempty" example:"success"`
	Data    CommentVO `json:"data"`
}

// ListCommentsVOWrapper 对应 response.APIResponse[vo.ListCommentsVO]
type ListCommentsVOWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    ListCommentsVO `json:"data"`
}

// ListNotificationsVOWrapper 对应 response.APIResponse[vo.ListNotificationsVO]
type ListNotificationsVOWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    ListNotificationsVO `json:"data"`
}

// CategoryVOWrapper 对应 response.APIResponse[vo.CategoryVO]
type CategoryVOWrapper struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message,omitempty" example:"success"`
	Data    CategoryVO `json:"data"`
}

// ListCategoriesVOWrapper 对应 response.APIResponse[[]vo.CategoryVO]
type ListCategoriesVOWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    []CategoryVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作（如 DELETE）可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
}
