package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/Xushengqwer/feed_service/docs" // 确保导入了 docs 包

	// 导入项目包
	appConfig "github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/controller"
	"github.com/Xushengqwer/feed_service/dependencies"
	"github.com/Xushengqwer/feed_service/mq/consumer"
	"github.com/Xushengqwer/feed_service/mq/producer"
	"github.com/Xushengqwer/feed_service/repo/es"
	"github.com/Xushengqwer/feed_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/feed_service/repo/redis"
	"github.com/Xushengqwer/feed_service/router"
	"github.com/Xushengqwer/feed_service/service"
	"github.com/Xushengqwer/feed_service/tasks"

	// 导入公共模块
	sharedCore "github.com/Xushengqwer/go-common/core"
	sharedTracing "github.com/Xushengqwer/go-common/core/tracing"

	// 导入 OTel HTTP Client Instrumentation
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	// 导入 Zap
	"go.uber.org/zap"
)

// @title           Feed Service API
// @version         1.0
// @description     信息流服务，提供帖子、评论、点赞、通知的读写接口，并维护计数/缓存/搜索索引的一致性。
// @termsOfService  http://swagger.io/terms/

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8083
// API 的主机和端口 (根据开发环境配置)

// @schemes http https
func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg appConfig.FeedConfig
	if err := sharedCore.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// 打印最终生效的配置以供调试
	configBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Fatalf("无法序列化配置以进行打印: %v", err)
	}
	log.Printf("✅ 配置加载成功！最终生效的配置如下:\n%s\n", string(configBytes))

	// 2. 初始化 Logger
	logger, loggerErr := sharedCore.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化 TracerProvider
	var tracerShutdown func(context.Context) error // 用于优雅关停
	if cfg.TracerConfig.Enabled {
		var err error
		tracerShutdown, err = sharedTracing.InitTracerProvider(
			constant.ServiceName,
			constant.ServiceVersion,
			cfg.TracerConfig,
		)
		if err != nil {
			logger.Fatal("初始化 TracerProvider 失败", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			logger.Info("正在关闭 TracerProvider...")
			if err := tracerShutdown(ctx); err != nil {
				logger.Error("关闭 TracerProvider 失败", zap.Error(err))
			} else {
				logger.Info("TracerProvider 已成功关闭")
			}
		}()
		logger.Info("分布式追踪已初始化")
		// 该服务暂时没有需要追踪的出站 HTTP 调用，仅初始化 Transport 备用
		_ = otelhttp.NewTransport(http.DefaultTransport)
		logger.Debug("OTel HTTP Transport 初始化完成 (暂未使用)")
	} else {
		logger.Info("分布式追踪已禁用")
		tracerShutdown = func(ctx context.Context) error { return nil }
	}

	// --- 4. 初始化核心依赖 ---
	// 4.1 数据库 (MySQL)
	db, dbErr := dependencies.InitMySQL(&cfg, logger)
	if dbErr != nil {
		logger.Fatal("初始化 MySQL 数据库失败", zap.Error(dbErr))
	}
	logger.Info("MySQL 数据库连接成功")

	// 4.2 Redis
	rdb, redisErr := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if redisErr != nil {
		logger.Fatal("初始化 Redis 失败", zap.Error(redisErr))
	}
	logger.Info("Redis 连接成功")

	// 4.3 Elasticsearch
	esClient, esErr := dependencies.InitElasticsearch(&cfg.ESConfig, logger)
	if esErr != nil {
		logger.Fatal("初始化 Elasticsearch 客户端失败", zap.Error(esErr))
	}
	logger.Info("Elasticsearch 客户端初始化成功")

	// 4.4 Kafka 生产者
	var kafkaProducer *producer.KafkaProducer
	if len(cfg.KafkaConfig.Brokers) > 0 {
		kafkaProducer = producer.NewKafkaProducer(cfg.KafkaConfig, logger)
		logger.Info("Kafka 生产者已初始化")
	} else {
		logger.Fatal("未配置 Kafka brokers，变更事件无法发布，拒绝启动")
	}

	// --- 5. 初始化数据仓库层 (Repositories) ---
	postRepo := mysql.NewPostRepository(db, logger)
	commentRepo := mysql.NewCommentRepository(db, logger)
	likeRepo := mysql.NewLikeRepository(db, logger)
	statsRepo := mysql.NewPostStatisticsRepository(db, logger)
	hashtagRepo := mysql.NewHashtagRepository(db, logger)
	categoryRepo := mysql.NewCategoryRepository(db, logger)
	notificationRepo := mysql.NewNotificationRepository(db, logger)
	statsBatchRepo := mysql.NewStatsBatchRepository(db, logger, cfg.StatsSyncConfig)
	logger.Debug("MySQL Repositories 初始化完成")

	cacheStore := redisrepo.NewCacheStore(rdb, logger)
	dedupRepo := redisrepo.NewEventDedupRepository(rdb, logger)
	deadLetterRepo := redisrepo.NewDeadLetterRepository(rdb, logger)
	logger.Debug("Redis Repositories 初始化完成")

	postIndexName := cfg.ESConfig.PostIndex
	if postIndexName == "" {
		postIndexName = "posts"
	}
	postIndexRepo := es.NewPostIndexRepository(esClient, logger, postIndexName)
	logger.Debug("Elasticsearch Repositories 初始化完成")

	// --- 6. 初始化服务层 (Services) ---
	invalidationService := service.NewCacheInvalidationService(cacheStore, logger)
	postService := service.NewPostService(db, postRepo, statsRepo, hashtagRepo, categoryRepo, kafkaProducer, logger)
	commentService := service.NewCommentService(db, commentRepo, postRepo, kafkaProducer, logger)
	likeService := service.NewLikeService(db, likeRepo, postRepo, kafkaProducer, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)
	categoryService := service.NewCategoryService(db, categoryRepo, postRepo, logger)
	feedQueryService := service.NewFeedQueryService(cacheStore, postIndexRepo, cfg.CacheConfig, logger)
	logger.Debug("Services 初始化完成")

	// --- 7. 初始化控制器层 (Controllers) ---
	postController := controller.NewPostController(postService, feedQueryService)
	commentController := controller.NewCommentController(commentService, feedQueryService)
	likeController := controller.NewLikeController(likeService)
	notificationController := controller.NewNotificationController(notificationService)
	categoryController := controller.NewCategoryController(categoryService)
	logger.Debug("Controllers 初始化完成")

	// --- 8. 初始化 Kafka 消费者 ---
	// 同一事件被多个下游独立消费，扇出通过不同的消费组实现:
	//   counter 组      <- 变更主题
	//   invalidation 组 <- 变更主题 + 统计变更主题
	//   search 组       <- 变更主题 + 统计变更主题
	var consumers []*consumer.Consumer
	var consumerWg sync.WaitGroup

	// 创建一个可以被取消的 context，用于通知所有消费者停止
	consumerCtx, consumerCancel := context.WithCancel(context.Background())

	groups := cfg.KafkaConfig.ConsumerGroups
	if groups.Counter == "" || groups.Invalidation == "" || groups.Search == "" {
		logger.Fatal("Kafka 消费组 ID 配置不完整",
			zap.String("counter", groups.Counter),
			zap.String("invalidation", groups.Invalidation),
			zap.String("search", groups.Search),
		)
	}

	topics := cfg.KafkaConfig.Topics
	if topics.FeedMutation == "" || topics.StatisticsChanged == "" {
		logger.Fatal("Kafka 主题配置不完整",
			zap.String("feedMutation", topics.FeedMutation),
			zap.String("statisticsChanged", topics.StatisticsChanged),
		)
	}

	addConsumer := func(groupID, topicName string, handler consumer.MessageHandler, label string) {
		c, err := consumer.NewConsumer(&cfg.KafkaConfig, groupID, topicName, handler, logger)
		if err != nil {
			logger.Fatal("初始化 Kafka 消费者失败",
				zap.String("label", label),
				zap.String("groupID", groupID),
				zap.String("topic", topicName),
				zap.Error(err),
			)
		}
		consumers = append(consumers, c)
		logger.Info("Kafka 消费者已准备就绪",
			zap.String("label", label),
			zap.String("groupID", groupID),
			zap.String("topic", topicName),
		)
	}

	// 8.1 计数更新 Worker: 只消费变更主题
	counterHandler := consumer.NewCounterEventHandler(
		logger,
		groups.Counter,
		dedupRepo,
		deadLetterRepo,
		statsRepo,
		postRepo,
		commentRepo,
		likeRepo,
		notificationRepo,
		kafkaProducer,
	)
	addConsumer(groups.Counter, topics.FeedMutation, counterHandler, "counter")

	// 8.2 缓存失效引擎: 同一 handler 挂在两个主题上 (kafka.Reader 单主题)
	invalidationHandler := consumer.NewInvalidationEventHandler(logger, topics, invalidationService)
	addConsumer(groups.Invalidation, topics.FeedMutation, invalidationHandler, "invalidation")
	addConsumer(groups.Invalidation, topics.StatisticsChanged, invalidationHandler, "invalidation")

	// 8.3 搜索索引同步器: 同样消费两个主题
	searchSyncHandler := consumer.NewSearchSyncEventHandler(logger, topics, postRepo, statsRepo, postIndexRepo)
	addConsumer(groups.Search, topics.FeedMutation, searchSyncHandler, "search_sync")
	addConsumer(groups.Search, topics.StatisticsChanged, searchSyncHandler, "search_sync")

	// 8.4 启动所有消费者
	logger.Info(fmt.Sprintf("准备启动 %d 个 Kafka 消费者...", len(consumers)))
	for _, c := range consumers {
		consumerWg.Add(1)
		go func(cons *consumer.Consumer) {
			defer consumerWg.Done()
			cons.Start(consumerCtx)
		}(c)
	}

	// --- 9. 初始化定时任务 ---
	reconcileTask := tasks.NewStatsReconcileTask(statsBatchRepo, logger)
	logger.Info("后台定时任务已初始化并启动")

	// --- 10. 设置 Gin 路由器 ---
	ginRouter := router.SetupRouter(logger, &cfg, postController, commentController, likeController, notificationController, categoryController)
	logger.Info("Gin 路由器已设置")

	// --- 11. 启动 HTTP 服务器 ---
	serverAddr := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
		logger.Info("HTTP 服务器已停止监听")
	}()

	// --- 12. 实现优雅关停 ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	logger.Info("收到关停信号，开始优雅退出...", zap.String("signal", receivedSignal.String()))

	shutdownCtx, shutdownCancelFunc := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancelFunc()

	// a. 停止 HTTP 服务器 (允许处理完当前请求)
	logger.Info("正在关闭 HTTP 服务器...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭 HTTP 服务器失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已成功关闭")
	}

	// b. 关闭 Kafka 消费者
	logger.Info("正在发送停止信号给 Kafka 消费者...")
	consumerCancel()
	logger.Info("等待 Kafka 消费者停止...")
	consumerWg.Wait()

	for _, c := range consumers {
		if err := c.Close(); err != nil {
			logger.Error("关闭某个 Kafka 消费者时出错", zap.Error(err))
		}
	}
	logger.Info("所有 Kafka 消费者已停止。")

	// c. 关闭 Kafka 生产者 (消费者停止后再关，计数 Worker 还会发统计变更事件)
	if err := kafkaProducer.Close(); err != nil {
		logger.Error("关闭 Kafka 生产者时出错", zap.Error(err))
	} else {
		logger.Info("Kafka 生产者已关闭")
	}

	// d. 停止定时任务调度器 (等待任务结束)
	logger.Info("正在停止定时任务...")
	reconcileStopCtx := reconcileTask.Stop()
	select {
	case <-reconcileStopCtx.Done():
		logger.Info("统计对账任务已停止")
	case <-shutdownCtx.Done():
		logger.Error("等待统计对账任务停止超时", zap.Error(shutdownCtx.Err()))
	}
	logger.Info("所有定时任务已停止")

	// e. (其他清理，例如关闭 TracerProvider - 已通过 defer 处理)

	logger.Info("服务已成功关闭")
}
