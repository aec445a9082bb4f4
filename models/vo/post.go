package vo

import (
	"time"
)

// PostVO 定义了帖子的响应数据结构
// - 计数字段来自统计行，由事件流异步维护，读路径不做联表实时计算
type PostVO struct {
	ID             uint64    `json:"id"`              // 帖子ID
	Title          string    `json:"title"`           // 帖子标题
	Content        string    `json:"content"`         // 帖子正文
	AuthorID       string    `json:"author_id"`       // 作者ID
	AuthorUsername string    `json:"author_username"` // 作者用户名
	CategoryID     uint64    `json:"category_id"`     // 分类ID
	Latitude       float64   `json:"latitude"`        // 纬度
	Longitude      float64   `json:"longitude"`       // 经度
	Hashtags       []string  `json:"hashtags"`        // 话题标签 (不含 # 前缀)
	LikesCount     int64     `json:"likes_count"`     // 点赞数
	CommentsCount  int64     `json:"comments_count"`  // 评论数
	CreatedAt      time.Time `json:"created_at"`      // 创建时间
	UpdatedAt      time.Time `json:"updated_at"`      // 更新时间
}

// ListPostsByCursorVO 定义帖子列表游标分页的响应结构
type ListPostsByCursorVO struct {
	Posts      []*PostVO `json:"posts"`       // 帖子列表
	NextCursor *uint64   `json:"next_cursor"` // 下一个游标，nil 表示无更多数据
}

// SearchPostVO 定义搜索命中的帖子摘要结构
// - 字段来自搜索索引文档，不回源数据库
type SearchPostVO struct {
	ID            uint64    `json:"id"`             // 帖子ID
	Title         string    `json:"title"`          // 帖子标题
	Author        string    `json:"author"`         // 作者用户名
	LikesCount    int64     `json:"likes_count"`    // 点赞数
	CommentsCount int64     `json:"comments_count"` // 评论数
	Created       time.Time `json:"created"`        // 创建时间
	Modified      time.Time `json:"modified"`       // 最后修改时间
}

// SearchPostsVO 定义帖子搜索的响应结构
type SearchPostsVO struct {
	Posts []*SearchPostVO `json:"posts"` // 命中列表
	Total int64           `json:"total"` // 命中总数
}
