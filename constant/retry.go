package constant

import "time"

// 计数更新 Worker 的重试预算。
// 统计行缺失多数是与帖子创建事务之间的短暂竞态，短间隔重试几次即可收敛；
// 预算耗尽后事件进入死信列表。
const (
	CounterMaxAttempts    = 5
	CounterRetryBaseDelay = 100 * time.Millisecond
)

// SyncStatisticsInterval 统计对账任务的 cron 表达式（分钟级精度）。
// 该任务从 likes/comments 源数据重算计数并修复漂移，是异步窗口内
// 少计/多计的最终收敛兜底。
const SyncStatisticsInterval = "*/30 * * * *"
