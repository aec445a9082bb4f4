package dto

// CreatePostRequest 定义了创建帖子的请求数据结构
// - 添加了 binding 标签用于输入验证
// - 作者身份 (AuthorID) 不走请求体，由网关注入的用户上下文提供
type CreatePostRequest struct {
	Title          string   `json:"title" form:"title" binding:"required,max=200"`                     // 帖子标题，必填，全局唯一，最大200字符
	Content        string   `json:"content" form:"content" binding:"required"`                         // 帖子正文，必填，话题标签 (#xxx) 写在正文中由系统提取
	AuthorUsername string   `json:"author_username" form:"author_username" binding:"required,max=50"`  // 作者用户名，必填，最大50字符
	CategoryID     uint64   `json:"category_id" form:"category_id" binding:"omitempty,gt=0"`           // 分类ID，可选，缺省挂到兜底分类
	Latitude       *float64 `json:"latitude" form:"latitude" binding:"omitempty,gte=-90,lte=90"`       // 纬度，可选
	Longitude      *float64 `json:"longitude" form:"longitude" binding:"omitempty,gte=-180,lte=180"`   // 经度，可选
}

// ListPostsByCursorRequest 定义分页查询帖子列表的请求数据结构（游标加载）
type ListPostsByCursorRequest struct {
	Cursor   *uint64 `json:"cursor" form:"cursor"`                               // 游标（上次加载的最后一条帖子的 ID），可选
	PageSize int     `json:"page_size" form:"page_size" binding:"required,gt=0,lte=100"` // 每页数量，必填，1-100
}

// SearchPostsRequest 定义帖子搜索的请求数据结构
// - 地理过滤需要 latitude/longitude/distance 三个参数同时提供才生效
type SearchPostsRequest struct {
	Query     string   `json:"q" form:"q" binding:"omitempty,max=200"`                          // 检索词，匹配帖子标题
	Ordering  string   `json:"ordering" form:"ordering" binding:"omitempty,max=30"`             // 排序字段 (倒序): modified / comments_count / likes_count
	Latitude  *float64 `json:"latitude" form:"latitude" binding:"omitempty,gte=-90,lte=90"`     // 纬度，可选
	Longitude *float64 `json:"longitude" form:"longitude" binding:"omitempty,gte=-180,lte=180"` // 经度，可选
	Distance  string   `json:"distance" form:"distance" binding:"omitempty,max=20"`             // 距离，形如 "10km"，可选
	Page      int      `json:"page" form:"page" binding:"omitempty,gte=1"`                      // 页码，从1开始，缺省1
	PageSize  int      `json:"page_size" form:"page_size" binding:"omitempty,gt=0,lte=100"`     // 每页数量，缺省20
}
