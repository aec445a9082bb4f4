package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/feed_service/models/entities"
	"github.com/Xushengqwer/feed_service/models/events"
	"github.com/Xushengqwer/feed_service/repo/mysql"
)

// --- 内存实现: 用于在无外部依赖的情况下验证消费端语义 ---

type fakeDedupRepo struct {
	mu   sync.Mutex
	seen map[string]bool
	err  error
}

func newFakeDedupRepo() *fakeDedupRepo {
	return &fakeDedupRepo{seen: make(map[string]bool)}
}

func (f *fakeDedupRepo) MarkProcessed(_ context.Context, group, eventID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	key := group + ":" + eventID
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

type fakeDeadLetterRepo struct {
	mu      sync.Mutex
	entries []events.DeadLetterEntry
}

func (f *fakeDeadLetterRepo) Push(_ context.Context, entry events.DeadLetterEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeDeadLetterRepo) List(_ context.Context, _, _ int64) ([]events.DeadLetterEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.DeadLetterEntry(nil), f.entries...), nil
}

func (f *fakeDeadLetterRepo) Len(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.entries)), nil
}

type fakeStatsRepo struct {
	mu       sync.Mutex
	likes    map[uint64]int64
	comments map[uint64]int64
	missing  map[uint64]bool
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{
		likes:    make(map[uint64]int64),
		comments: make(map[uint64]int64),
		missing:  make(map[uint64]bool),
	}
}

func (f *fakeStatsRepo) CreateStatistics(_ context.Context, _ *gorm.DB, postID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.likes[postID] = 0
	f.comments[postID] = 0
	return nil
}

func (f *fakeStatsRepo) AtomicIncrement(_ context.Context, postID uint64, field mysql.StatField, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[postID] {
		return commonerrors.ErrRepoNotFound
	}
	switch field {
	case mysql.FieldLikesCount:
		next := f.likes[postID] + delta
		if next < 0 { // 与 SQL 层的 GREATEST 钳制一致
			next = 0
		}
		f.likes[postID] = next
	case mysql.FieldCommentsCount:
		f.comments[postID] += delta
	default:
		return fmt.Errorf("未知计数列: %s", field)
	}
	return nil
}

func (f *fakeStatsRepo) GetByPostID(_ context.Context, postID uint64) (*entities.PostStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[postID] {
		return nil, commonerrors.ErrRepoNotFound
	}
	return &entities.PostStatistics{
		PostID:        postID,
		LikesCount:    f.likes[postID],
		CommentsCount: f.comments[postID],
	}, nil
}

type fakePostRepo struct {
	posts map[uint64]*entities.Post
}

func (f *fakePostRepo) CreatePost(_ context.Context, _ *gorm.DB, _ *entities.Post) error {
	return errors.New("not implemented")
}
func (f *fakePostRepo) GetPostByID(_ context.Context, id uint64) (*entities.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	return post, nil
}
func (f *fakePostRepo) ListPostsByCursor(_ context.Context, _ *uint64, _ int) ([]*entities.Post, *uint64, error) {
	return nil, nil, errors.New("not implemented")
}
func (f *fakePostRepo) DeletePost(_ context.Context, _ *gorm.DB, _ uint64) error {
	return errors.New("not implemented")
}
func (f *fakePostRepo) ReassignCategory(_ context.Context, _ *gorm.DB, _, _ uint64) error {
	return errors.New("not implemented")
}
func (f *fakePostRepo) ReplaceHashtags(_ context.Context, _ *gorm.DB, _ *entities.Post, _ []*entities.Hashtag) error {
	return errors.New("not implemented")
}

type fakeCommentRepo struct {
	comments map[uint64]*entities.Comment
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, _ *gorm.DB, _ *entities.Comment) error {
	return errors.New("not implemented")
}
func (f *fakeCommentRepo) GetCommentByID(_ context.Context, id uint64) (*entities.Comment, error) {
	return f.GetCommentAnyState(context.Background(), id)
}
func (f *fakeCommentRepo) GetCommentAnyState(_ context.Context, id uint64) (*entities.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	return comment, nil
}
func (f *fakeCommentRepo) ListCommentsByPost(_ context.Context, _ uint64, _, _ int) ([]*entities.Comment, int64, error) {
	return nil, 0, errors.New("not implemented")
}
func (f *fakeCommentRepo) DeleteComment(_ context.Context, _ *gorm.DB, _ uint64) error {
	return errors.New("not implemented")
}

type fakeLikeRepo struct {
	mu    sync.Mutex
	likes map[uint64]*entities.Like
}

func (f *fakeLikeRepo) CreateLike(_ context.Context, _ *gorm.DB, _ *entities.Like) error {
	return errors.New("not implemented")
}
func (f *fakeLikeRepo) GetLikeAnyState(_ context.Context, id uint64) (*entities.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	like, ok := f.likes[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	return like, nil
}
func (f *fakeLikeRepo) GetActiveLike(_ context.Context, _ uint64, _ string) (*entities.Like, error) {
	return nil, commonerrors.ErrRepoNotFound
}
func (f *fakeLikeRepo) DeleteLike(_ context.Context, _ *gorm.DB, _ uint64) error {
	return errors.New("not implemented")
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entities.Notification
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, n *entities.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notifications = append(f.notifications, n)
	return nil
}
func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, _ string, _, _ int) ([]*entities.Notification, int64, error) {
	return nil, 0, errors.New("not implemented")
}

type fakePublisher struct {
	mu        sync.Mutex
	published []events.StatisticsChangedEvent
}

func (f *fakePublisher) PublishMutationEvent(_ context.Context, _ events.EntityKind, _ uint64, _ events.Operation, _ uint64) error {
	return nil
}
func (f *fakePublisher) PublishStatisticsChanged(_ context.Context, postID uint64, kind events.EntityKind, entityID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, events.StatisticsChangedEvent{
		PostID:     postID,
		EntityKind: kind,
		EntityID:   entityID,
	})
	return nil
}

// --- 测试脚手架 ---

type counterHandlerFixture struct {
	handler      *CounterEventHandler
	dedup        *fakeDedupRepo
	deadLetter   *fakeDeadLetterRepo
	stats        *fakeStatsRepo
	posts        *fakePostRepo
	comments     *fakeCommentRepo
	likes        *fakeLikeRepo
	notification *fakeNotificationRepo
	publisher    *fakePublisher
}

func newCounterHandlerFixture(t *testing.T) *counterHandlerFixture {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)

	f := &counterHandlerFixture{
		dedup:        newFakeDedupRepo(),
		deadLetter:   &fakeDeadLetterRepo{},
		stats:        newFakeStatsRepo(),
		posts:        &fakePostRepo{posts: make(map[uint64]*entities.Post)},
		comments:     &fakeCommentRepo{comments: make(map[uint64]*entities.Comment)},
		likes:        &fakeLikeRepo{likes: make(map[uint64]*entities.Like)},
		notification: &fakeNotificationRepo{},
		publisher:    &fakePublisher{},
	}
	f.handler = NewCounterEventHandler(
		logger, "feed_counter_group",
		f.dedup, f.deadLetter, f.stats,
		f.posts, f.comments, f.likes, f.notification, f.publisher,
	)
	return f
}

func mutationMessage(t *testing.T, event events.MutationEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return kafka.Message{Topic: "feed_mutation", Value: payload}
}

func newLikeCreatedEvent(postID, likeID uint64) events.MutationEvent {
	return events.MutationEvent{
		EventID:      uuid.New().String(),
		Timestamp:    time.Now(),
		EntityKind:   events.KindLike,
		EntityID:     likeID,
		Operation:    events.OpCreated,
		ParentPostID: postID,
	}
}

// --- 用例 ---

func TestCounterHandler_LikeCreated(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.posts.posts[1] = &entities.Post{Title: "深入 Go 调度器", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.likes.likes[10] = &entities.Like{PostID: 1, AuthorID: "actor-2"}

	err := f.handler.Handle(context.Background(), mutationMessage(t, newLikeCreatedEvent(1, 10)))
	require.NoError(t, err)

	assert.Equal(t, int64(1), f.stats.likes[1])

	// 触发者不是作者，应产生点赞通知
	require.Len(t, f.notification.notifications, 1)
	assert.Equal(t, "author-1", f.notification.notifications[0].RecipientID)
	assert.Equal(t, "Your post titled '深入 Go 调度器' was liked.", f.notification.notifications[0].Message)

	// 计数落库后应发布统计变更事件
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, uint64(1), f.publisher.published[0].PostID)
	assert.Equal(t, events.KindLike, f.publisher.published[0].EntityKind)
}

func TestCounterHandler_CommentCreated(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.posts.posts[1] = &entities.Post{Title: "goroutine 泄漏排查", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.comments.comments[20] = &entities.Comment{PostID: 1, AuthorID: "actor-2", Content: "受教了"}

	event := newLikeCreatedEvent(1, 20)
	event.EntityKind = events.KindComment

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	assert.Equal(t, int64(1), f.stats.comments[1])
	assert.Equal(t, int64(0), f.stats.likes[1])

	require.Len(t, f.notification.notifications, 1)
	assert.Equal(t, "Your post titled 'goroutine 泄漏排查' has a new comment.", f.notification.notifications[0].Message)
}

func TestCounterHandler_SelfLikeSkipsNotification(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.posts.posts[1] = &entities.Post{Title: "自己的帖子", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.likes.likes[10] = &entities.Like{PostID: 1, AuthorID: "author-1"}

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, newLikeCreatedEvent(1, 10))))

	// 计数照常增加，但不给自己发通知
	assert.Equal(t, int64(1), f.stats.likes[1])
	assert.Empty(t, f.notification.notifications)
}

func TestCounterHandler_DuplicateEventSkipped(t *testing.T) {
	f := newCounterHandlerFixture(t)
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.likes.likes[10] = &entities.Like{PostID: 1, AuthorID: "actor-2"}
	f.posts.posts[1] = &entities.Post{Title: "t", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1

	event := newLikeCreatedEvent(1, 10)
	msg := mutationMessage(t, event)

	require.NoError(t, f.handler.Handle(context.Background(), msg))
	require.NoError(t, f.handler.Handle(context.Background(), msg)) // 原样重投递

	assert.Equal(t, int64(1), f.stats.likes[1], "重复事件不应二次计入")
	assert.Len(t, f.publisher.published, 1)
}

func TestCounterHandler_DedupFailureDoesNotBlockProcessing(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.dedup.err = errors.New("redis: connection refused")
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.likes.likes[10] = &entities.Like{PostID: 1, AuthorID: "actor-2"}
	f.posts.posts[1] = &entities.Post{Title: "t", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, newLikeCreatedEvent(1, 10))))

	// 去重是尽力而为: Redis 故障时按首次处理放行
	assert.Equal(t, int64(1), f.stats.likes[1])
}

func TestCounterHandler_DeleteOfStillActiveEntityIsNoop(t *testing.T) {
	f := newCounterHandlerFixture(t)
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.stats.likes[1] = 3
	// 实体未软删除: 删除事件与存储状态矛盾
	f.likes.likes[10] = &entities.Like{PostID: 1, AuthorID: "actor-2"}

	event := newLikeCreatedEvent(1, 10)
	event.Operation = events.OpDeleted

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	assert.Equal(t, int64(3), f.stats.likes[1], "活跃实体的删除事件不应递减")
	assert.Empty(t, f.deadLetter.entries)
	assert.Empty(t, f.publisher.published)
}

func TestCounterHandler_DeleteOfSoftDeletedEntityDecrements(t *testing.T) {
	f := newCounterHandlerFixture(t)
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	f.stats.likes[1] = 3
	like := &entities.Like{PostID: 1, AuthorID: "actor-2"}
	like.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	f.likes.likes[10] = like

	event := newLikeCreatedEvent(1, 10)
	event.Operation = events.OpDeleted

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	assert.Equal(t, int64(2), f.stats.likes[1])
	require.Len(t, f.publisher.published, 1)
	// 删除不触发通知
	assert.Empty(t, f.notification.notifications)
}

func TestCounterHandler_DeleteAtZeroCountDoesNotDeadLetter(t *testing.T) {
	f := newCounterHandlerFixture(t)
	// 统计行存在但点赞数已经是 0: 事件乱序（delete 先于 create 被处理）
	// 或对账修复后重放都会出现这种状态。钳制递减是合法无操作，
	// 不能被当成统计行缺失送进死信。
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))
	like := &entities.Like{PostID: 1, AuthorID: "actor-2"}
	like.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	f.likes.likes[10] = like

	event := newLikeCreatedEvent(1, 10)
	event.Operation = events.OpDeleted

	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	assert.Equal(t, int64(0), f.stats.likes[1])
	assert.Empty(t, f.deadLetter.entries, "钳制在零值上的递减不应进入死信")
	require.Len(t, f.publisher.published, 1)
}

func TestCounterHandler_MissingStatsRowRetriesThenDeadLetters(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.stats.missing[99] = true
	f.likes.likes[10] = &entities.Like{PostID: 99, AuthorID: "actor-2"}

	event := newLikeCreatedEvent(99, 10)
	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	// 重试耗尽后事件进入死信，绝不静默丢弃
	require.Len(t, f.deadLetter.entries, 1)
	entry := f.deadLetter.entries[0]
	assert.Equal(t, event.EventID, entry.Event.EventID)
	assert.NotEmpty(t, entry.LastError)
	assert.Greater(t, entry.Attempts, 1)
	assert.Empty(t, f.publisher.published)
}

func TestCounterHandler_MissingEntityRowDeadLetters(t *testing.T) {
	f := newCounterHandlerFixture(t)
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))

	// 点赞行不存在 (事件先于数据可见，且始终未追平)
	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, newLikeCreatedEvent(1, 404))))

	assert.Equal(t, int64(0), f.stats.likes[1])
	require.Len(t, f.deadLetter.entries, 1)
}

func TestCounterHandler_PostEventIgnored(t *testing.T) {
	f := newCounterHandlerFixture(t)

	event := events.MutationEvent{
		EventID:      uuid.New().String(),
		EntityKind:   events.KindPost,
		EntityID:     1,
		Operation:    events.OpCreated,
		ParentPostID: 1,
	}
	require.NoError(t, f.handler.Handle(context.Background(), mutationMessage(t, event)))

	assert.Empty(t, f.publisher.published)
	assert.Empty(t, f.deadLetter.entries)
}

func TestCounterHandler_MalformedMessageDropped(t *testing.T) {
	f := newCounterHandlerFixture(t)

	err := f.handler.Handle(context.Background(), kafka.Message{Value: []byte("{not json")})
	require.NoError(t, err, "无法解析的消息不应触发重投递")
	assert.Empty(t, f.deadLetter.entries)
}

func TestCounterHandler_ConcurrentLikeEvents(t *testing.T) {
	f := newCounterHandlerFixture(t)
	f.posts.posts[1] = &entities.Post{Title: "热帖", AuthorID: "author-1"}
	f.posts.posts[1].ID = 1
	require.NoError(t, f.stats.CreateStatistics(context.Background(), nil, 1))

	const total = 50
	const workers = 10

	msgs := make([]kafka.Message, 0, total)
	for i := 0; i < total; i++ {
		likeID := uint64(100 + i)
		f.likes.likes[likeID] = &entities.Like{PostID: 1, AuthorID: fmt.Sprintf("actor-%d", i)}
		msgs = append(msgs, mutationMessage(t, newLikeCreatedEvent(1, likeID)))
	}

	jobs := make(chan kafka.Message)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range jobs {
				assert.NoError(t, f.handler.Handle(context.Background(), msg))
			}
		}()
	}
	for _, msg := range msgs {
		jobs <- msg
	}
	close(jobs)
	wg.Wait()

	// 原子增量下并发处理不丢更新
	assert.Equal(t, int64(total), f.stats.likes[1])
	assert.Len(t, f.publisher.published, total)
	assert.Empty(t, f.deadLetter.entries)
}
