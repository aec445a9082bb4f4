package constant

// DefaultCategoryID 是兜底分类的主键。
// 分类被删除时，其下帖子在同一事务内被改挂到该分类（而不是级联删除帖子）。
// 该行由数据库迁移阶段保证存在。
const DefaultCategoryID uint64 = 1

// DefaultCategoryName 兜底分类的名称。
const DefaultCategoryName = "uncategorized"
