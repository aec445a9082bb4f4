package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/models/events"
)

// EventPublisher 定义了写路径向事件总线发布事件的接口。
// - 发布是同步的: WriteMessages 返回前不算发布成功，错误原样抛给调用方。
//   写路径据此保证"数据库事务已提交但事件发布失败"时能把失败暴露给上游，
//   而不是静默丢事件让衍生数据永久漂移。
type EventPublisher interface {
	// PublishMutationEvent 发布一条内容变更事件到变更主题。
	// - EventID 与时间戳在此统一生成，调用方只提供业务字段。
	PublishMutationEvent(ctx context.Context, kind events.EntityKind, entityID uint64, op events.Operation, parentPostID uint64) error

	// PublishStatisticsChanged 发布一条统计已变更事件。
	// - 由计数消费者在成功更新统计行后发出，驱动失效与搜索同步消费组。
	PublishStatisticsChanged(ctx context.Context, postID uint64, kind events.EntityKind, entityID uint64) error
}

// KafkaProducer 是 EventPublisher 的 Kafka 实现。
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例。
func NewKafkaProducer(cfg config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: cfg.Topics,
	}
}

// sendEvent 序列化并同步写入指定主题。
func (p *KafkaProducer) sendEvent(ctx context.Context, topic string, key string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化事件失败", zap.Error(err), zap.String("topic", topic))
		return fmt.Errorf("序列化事件失败 (主题: %s): %w", topic, err)
	}

	p.logger.Debug("发送 Kafka 消息",
		zap.String("topic", topic),
		zap.String("key", key),
		zap.ByteString("payload", eventBytes))

	// Key 取帖子 ID: 同一帖子的事件落在同一分区，保持分区内有序。
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: eventBytes,
	})
	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
		return fmt.Errorf("写入 Kafka 消息失败 (主题: %s): %w", topic, err)
	}
	return nil
}

func (p *KafkaProducer) PublishMutationEvent(ctx context.Context, kind events.EntityKind, entityID uint64, op events.Operation, parentPostID uint64) error {
	event := events.MutationEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		EntityKind:   kind,
		EntityID:     entityID,
		Operation:    op,
		ParentPostID: parentPostID,
	}
	return p.sendEvent(ctx, p.topics.FeedMutation, fmt.Sprintf("%d", parentPostID), event)
}

func (p *KafkaProducer) PublishStatisticsChanged(ctx context.Context, postID uint64, kind events.EntityKind, entityID uint64) error {
	event := events.StatisticsChangedEvent{
		EventID:    uuid.New().String(),
		Timestamp:  time.Now(),
		PostID:     postID,
		EntityKind: kind,
		EntityID:   entityID,
	}
	return p.sendEvent(ctx, p.topics.StatisticsChanged, fmt.Sprintf("%d", postID), event)
}

// Close 关闭底层 writer，刷出缓冲中的消息。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
