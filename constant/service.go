package constant

// 服务元信息，用于链路追踪与日志标识
const (
	ServiceName    = "feed_service"
	ServiceVersion = "1.0.0"
)
