// File: repo/mysql/stats_batch.go
package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/config"
)

// StatDrift 描述一条计数漂移: 统计行里的值与从源数据重算出的值不一致。
type StatDrift struct {
	PostID         uint64
	LikesCount     int64 // 统计行当前值
	CommentsCount  int64
	ActualLikes    int64 // 源数据重算值
	ActualComments int64
}

// StatsBatchRepository 统计对账的批量数据库操作接口。
// 对账是 at-least-once 事件流的收敛兜底: 周期性重算、批量修复，
// 允许部分批次失败（记录并聚合错误，不中断其余批次）。
type StatsBatchRepository interface {
	// ListDriftedStatistics 找出计数与源数据不一致的统计行。
	// - 真值以活跃(未软删除)的 likes/comments 行数为准，一条 SQL 完成比对。
	ListDriftedStatistics(ctx context.Context) ([]StatDrift, error)

	// BatchRepairStatistics 并发分批把漂移行修复为重算值。
	// - 分批大小与并发度来自 StatsSyncConfig；每批构建一条 CASE WHEN UPDATE。
	BatchRepairStatistics(ctx context.Context, drifts []StatDrift) error
}

type statsBatchRepository struct {
	db      *gorm.DB
	logger  *core.ZapLogger
	syncCfg config.StatsSyncConfig
}

// NewStatsBatchRepository creates a new instance of StatsBatchRepository.
func NewStatsBatchRepository(db *gorm.DB, logger *core.ZapLogger, syncCfg config.StatsSyncConfig) StatsBatchRepository {
	return &statsBatchRepository{db: db, logger: logger, syncCfg: syncCfg}
}

func (r *statsBatchRepository) ListDriftedStatistics(ctx context.Context) ([]StatDrift, error) {
	const query = `
		SELECT ps.post_id,
		       ps.likes_count,
		       ps.comments_count,
		       COALESCE(l.cnt, 0) AS actual_likes,
		       COALESCE(c.cnt, 0) AS actual_comments
		FROM post_statistics ps
		LEFT JOIN (
			SELECT post_id, COUNT(*) AS cnt FROM likes
			WHERE deleted_at IS NULL GROUP BY post_id
		) l ON l.post_id = ps.post_id
		LEFT JOIN (
			SELECT post_id, COUNT(*) AS cnt FROM comments
			WHERE deleted_at IS NULL GROUP BY post_id
		) c ON c.post_id = ps.post_id
		WHERE ps.deleted_at IS NULL
		  AND (ps.likes_count <> COALESCE(l.cnt, 0)
		    OR ps.comments_count <> COALESCE(c.cnt, 0))`

	var drifts []StatDrift
	if err := r.db.WithContext(ctx).Raw(query).Scan(&drifts).Error; err != nil {
		r.logger.Error("查询漂移统计行失败", zap.Error(err))
		return nil, fmt.Errorf("查询漂移统计行失败: %w", err)
	}
	return drifts, nil
}

// BatchRepairStatistics 实现漂移统计行的并发批量修复。
//
// 核心机制:
// 1. 数据分批: 根据 StatsSyncConfig.BatchSize 将漂移行分割成小批次。
// 2. 并发处理: 根据 ConcurrencyLevel 启动 worker goroutine 池消费批次。
// 3. 数据库更新: 每个批次构建一条 CASE WHEN UPDATE，单语句修复整批。
func (r *statsBatchRepository) BatchRepairStatistics(ctx context.Context, drifts []StatDrift) error {
	total := len(drifts)
	if total == 0 {
		r.logger.Info("BatchRepairStatistics: 没有漂移的统计行，任务提前结束。")
		return nil
	}

	batchSize := r.syncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500 // Fallback
		r.logger.Warn("BatchRepairStatistics: 配置 BatchSize 无效，使用默认值",
			zap.Int("defaultBatchSize", batchSize), zap.Int("configured", r.syncCfg.BatchSize))
	}
	concurrencyLevel := r.syncCfg.ConcurrencyLevel
	if concurrencyLevel <= 0 {
		concurrencyLevel = 1
		r.logger.Warn("BatchRepairStatistics: 配置 ConcurrencyLevel 无效，使用默认值 1",
			zap.Int("configured", r.syncCfg.ConcurrencyLevel))
	}

	totalBatches := (total + batchSize - 1) / batchSize
	r.logger.Info("BatchRepairStatistics: 开始并发批量修复",
		zap.Int("总数", total),
		zap.Int("批大小", batchSize),
		zap.Int("并发数", concurrencyLevel),
		zap.Int("批次数", totalBatches),
	)

	var wg sync.WaitGroup
	jobs := make(chan []StatDrift, concurrencyLevel)
	results := make(chan error, totalBatches)
	startTime := time.Now()

	for i := 0; i < concurrencyLevel; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range jobs {
				select {
				case <-ctx.Done():
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				default:
				}
				results <- r.repairBatch(ctx, batch, workerID)
			}
		}(i)
	}

	// 分发批次
	go func() {
		defer close(jobs)
		for i := 0; i < total; i += batchSize {
			end := i + batchSize
			if end > total {
				end = total
			}
			batchCopy := make([]StatDrift, end-i)
			copy(batchCopy, drifts[i:end])

			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发更多修复批次。", zap.Error(ctx.Err()))
				return
			case jobs <- batchCopy:
			}
		}
	}()

	// 收集结果: 失败批次记录并聚合，不中断其余批次
	go func() {
		wg.Wait()
		close(results)
	}()

	var failed int
	var firstErr error
	for err := range results {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	r.logger.Info("BatchRepairStatistics: 批量修复完成",
		zap.Int("失败批次", failed),
		zap.Duration("耗时", time.Since(startTime)),
	)
	if failed > 0 {
		return fmt.Errorf("统计修复有 %d 个批次失败，首个错误: %w", failed, firstErr)
	}
	return nil
}

// repairBatch 为一个批次构建单条 CASE WHEN UPDATE 并执行。
func (r *statsBatchRepository) repairBatch(ctx context.Context, batch []StatDrift, workerID int) error {
	if len(batch) == 0 {
		return nil
	}

	var likesCase, commentsCase strings.Builder
	ids := make([]interface{}, 0, len(batch))
	likesArgs := make([]interface{}, 0, len(batch)*2)
	commentsArgs := make([]interface{}, 0, len(batch)*2)

	likesCase.WriteString("CASE post_id")
	commentsCase.WriteString("CASE post_id")
	for _, d := range batch {
		likesCase.WriteString(" WHEN ? THEN ?")
		likesArgs = append(likesArgs, d.PostID, d.ActualLikes)
		commentsCase.WriteString(" WHEN ? THEN ?")
		commentsArgs = append(commentsArgs, d.PostID, d.ActualComments)
		ids = append(ids, d.PostID)
	}
	likesCase.WriteString(" END")
	commentsCase.WriteString(" END")

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	sql := fmt.Sprintf(
		"UPDATE post_statistics SET likes_count = %s, comments_count = %s, updated_at = NOW() WHERE post_id IN (%s) AND deleted_at IS NULL",
		likesCase.String(), commentsCase.String(), placeholders,
	)

	args := make([]interface{}, 0, len(likesArgs)+len(commentsArgs)+len(ids))
	args = append(args, likesArgs...)
	args = append(args, commentsArgs...)
	args = append(args, ids...)

	if err := r.db.WithContext(ctx).Exec(sql, args...).Error; err != nil {
		r.logger.Error("修复批次执行失败",
			zap.Error(err),
			zap.Int("workerID", workerID),
			zap.Int("batchSize", len(batch)),
		)
		return fmt.Errorf("worker %d: 修复批次失败 (%d 行): %w", workerID, len(batch), err)
	}
	return nil
}
