package vo

// CategoryVO 定义了分类的响应数据结构
type CategoryVO struct {
	ID   uint64 `json:"id"`   // 分类ID
	Name string `json:"name"` // 分类名
}
