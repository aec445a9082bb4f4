package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// StatsReconcileTask 负责定时从 likes/comments 源数据重算计数并修复漂移行。
// 异步链路（重复投递、死信、尽力而为幂等标记）可能造成窗口期内的少计或多计，
// 该任务是最终收敛的兜底手段。
type StatsReconcileTask struct {
	statsBatchRepo mysql.StatsBatchRepository // MySQL 批量操作仓库，负责找漂移和批量修复
	cron           *cron.Cron                 // cron V3 实例
	logger         *core.ZapLogger            // 日志记录器
}

// NewStatsReconcileTask 初始化并启动统计对账的定时任务。
func NewStatsReconcileTask(
	statsBatchRepo mysql.StatsBatchRepository,
	logger *core.ZapLogger,
) *StatsReconcileTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &StatsReconcileTask{
		statsBatchRepo: statsBatchRepo,
		cron:           cronV3,
		logger:         logger,
	}
	task.startCronJob() // 在构造函数中启动定时作业
	return task
}

// startCronJob 配置并启动 cron 作业。
// 使用 constant.SyncStatisticsInterval 定义的 cron 表达式来调度 reconcileStatistics 方法。
func (t *StatsReconcileTask) startCronJob() {
	schedule := constant.SyncStatisticsInterval
	t.logger.Info("准备启动统计对账定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("统计对账任务开始执行...")
		startTime := time.Now()
		// 为单次任务执行设置超时，例如 5 分钟。
		// 漂移行的扫描是一条带 GROUP BY 子查询的全表 JOIN，帖子量大时耗时可观。
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		t.reconcileStatistics(ctx) // 调用核心对账逻辑

		duration := time.Since(startTime)
		t.logger.Info("统计对账任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		// 如果添加 cron 作业失败（通常是 schedule 表达式错误），记录致命错误。
		t.logger.Fatal("添加统计对账 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start() // 启动 cron 调度器 (在后台 goroutine 中运行)
	t.logger.Info("统计对账定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// reconcileStatistics 是定时任务执行的实际对账逻辑。
// 1. 扫描 post_statistics 与 likes/comments 重算值不一致的行。
// 2. 调用 BatchRepairStatistics 并发分批修复为重算值。
func (t *StatsReconcileTask) reconcileStatistics(ctx context.Context) {
	t.logger.Info("任务步骤1: 开始扫描计数漂移的统计行...")
	drifts, err := t.statsBatchRepo.ListDriftedStatistics(ctx)
	if err != nil {
		// 扫描失败则中止本次对账，下个周期重试。
		t.logger.Error("扫描漂移统计行失败，本次对账中止。", zap.Error(err))
		return
	}

	driftCount := len(drifts)
	if driftCount == 0 {
		t.logger.Info("未发现计数漂移的统计行，无需修复。")
		return
	}
	t.logger.Info("任务步骤1: 扫描完成，发现漂移行。", zap.Int("漂移数量", driftCount))

	t.logger.Info("任务步骤2: 开始批量修复漂移的统计行...")
	// BatchRepairStatistics 内部按批次并发执行，单个批次失败只记录日志并继续，
	// 只有整体失败（例如上下文取消）才返回错误。
	if err := t.statsBatchRepo.BatchRepairStatistics(ctx, drifts); err != nil {
		t.logger.Error("批量修复漂移统计行时发生错误",
			zap.Error(err),
			zap.Int("提交数量", driftCount),
		)
	} else {
		t.logger.Info("任务步骤2: 批量修复调用已完成。", zap.Int("提交数量", driftCount))
	}
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *StatsReconcileTask) Stop() context.Context {
	t.logger.Info("正在停止统计对账定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("统计对账定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
