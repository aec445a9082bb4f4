package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/service"
)

// Seed 通过服务层填充测试数据: 帖子带随机话题标签，并附带若干评论和点赞，
// 这样计数/缓存/搜索的异步链路都会被真实事件驱动一遍。
func Seed(
	ctx context.Context,
	postSvc service.PostService,
	commentSvc service.CommentService,
	likeSvc service.LikeService,
	logger *core.ZapLogger,
	numPosts int,
) {
	logger.Info("开始填充测试数据 (通过服务层)...", zap.Int("帖子数量", numPosts))

	var wg sync.WaitGroup
	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for i := 0; i < numPosts; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(itemIndex int) {
			defer wg.Done()
			defer func() { <-semaphore }()

			authorID := uuid.New().String()

			// 内容里混入话题标签，走正常的标签提取与关联逻辑
			content := gofakeit.Paragraph(3, 5, 20, "\n\n")
			tags := make([]string, 0, 3)
			for t := 0; t < gofakeit.Number(0, 3); t++ {
				tags = append(tags, "#"+gofakeit.Word())
			}
			if len(tags) > 0 {
				content = content + "\n\n" + strings.Join(tags, " ")
			}

			createReq := &dto.CreatePostRequest{
				Title:          gofakeit.Sentence(gofakeit.Number(5, 15)),
				Content:        content,
				AuthorUsername: gofakeit.Username(),
			}
			// 约三分之一的帖子带坐标，覆盖地理筛选场景
			if gofakeit.Number(0, 2) == 0 {
				lat := gofakeit.Latitude()
				lon := gofakeit.Longitude()
				createReq.Latitude = &lat
				createReq.Longitude = &lon
			}

			post, err := postSvc.CreatePost(ctx, createReq, authorID)
			if err != nil {
				logger.Error(fmt.Sprintf("创建帖子 %d/%d 失败", itemIndex+1, numPosts),
					zap.Error(err),
					zap.String("title", createReq.Title))
				return
			}
			logger.Info(fmt.Sprintf("成功创建帖子 %d/%d", itemIndex+1, numPosts),
				zap.Uint64("post_id", post.ID),
				zap.String("title", post.Title))

			// 随机评论: 来自其他用户，会触发计数、通知与统计变更事件
			for c := 0; c < gofakeit.Number(0, 3); c++ {
				commentReq := &dto.CreateCommentRequest{
					Content: gofakeit.Sentence(gofakeit.Number(5, 20)),
				}
				if _, err := commentSvc.CreateComment(ctx, post.ID, uuid.New().String(), commentReq); err != nil {
					logger.Error("创建评论失败", zap.Error(err), zap.Uint64("post_id", post.ID))
				}
			}

			// 随机点赞: 每个点赞者一个独立用户 ID，避开唯一活跃点赞约束
			for l := 0; l < gofakeit.Number(0, 5); l++ {
				if err := likeSvc.LikePost(ctx, post.ID, uuid.New().String()); err != nil {
					logger.Error("点赞失败", zap.Error(err), zap.Uint64("post_id", post.ID))
				}
			}
		}(i)
	}

	wg.Wait()
	logger.Info("测试数据填充完毕 (通过服务层)。")
}
