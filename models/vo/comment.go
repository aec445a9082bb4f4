package vo

import (
	"time"
)

// CommentVO 定义了评论的响应数据结构
type CommentVO struct {
	ID        uint64    `json:"id"`         // 评论ID
	PostID    uint64    `json:"post_id"`    // 所属帖子ID
	AuthorID  string    `json:"author_id"`  // 评论作者ID
	Content   string    `json:"content"`    // 评论内容
	CreatedAt time.Time `json:"created_at"` // 创建时间
}

// ListCommentsVO 定义帖子评论分页的响应结构
type ListCommentsVO struct {
	Comments []*CommentVO `json:"comments"` // 当前页评论列表
	Total    int64        `json:"total"`    // 符合条件的总记录数
}
