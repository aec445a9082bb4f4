package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sharedConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/feed_service/config"
	"github.com/Xushengqwer/feed_service/constant"
	"github.com/Xushengqwer/feed_service/models/dto"
	"github.com/Xushengqwer/feed_service/myErrors"
	"github.com/Xushengqwer/feed_service/repo/es"
)

type fakePostIndexRepo struct {
	result    *es.SearchResult
	err       error
	lastQuery *es.PostQuery
}

func (f *fakePostIndexRepo) UpsertPost(_ context.Context, _ *es.PostDocument) error { return nil }
func (f *fakePostIndexRepo) DeletePost(_ context.Context, _ uint64) error           { return nil }
func (f *fakePostIndexRepo) SearchPosts(_ context.Context, query *es.PostQuery) (*es.SearchResult, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newFeedQueryFixture(t *testing.T) (FeedQueryService, *fakeCacheStore, *fakePostIndexRepo) {
	return newFeedQueryFixtureWithConfig(t, config.CacheConfig{})
}

func newFeedQueryFixtureWithConfig(t *testing.T, cacheCfg config.CacheConfig) (FeedQueryService, *fakeCacheStore, *fakePostIndexRepo) {
	t.Helper()
	logger, err := core.NewZapLogger(sharedConfig.ZapConfig{})
	require.NoError(t, err)
	store := newFakeCacheStore()
	index := &fakePostIndexRepo{result: &es.SearchResult{}}
	return NewFeedQueryService(store, index, cacheCfg, logger), store, index
}

func TestCachedJSON_MissLoadsAndBackfills(t *testing.T) {
	svc, store, _ := newFeedQueryFixture(t)
	ctx := context.Background()

	loaderCalls := 0
	loader := func(context.Context) (interface{}, error) {
		loaderCalls++
		return map[string]string{"hello": "world"}, nil
	}

	raw, err := svc.CachedJSON(ctx, "feed_cache:posts:abc", loader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(raw))
	assert.Equal(t, 1, loaderCalls)

	// 回填后第二次读取命中缓存，loader 不再执行
	raw, err = svc.CachedJSON(ctx, "feed_cache:posts:abc", loader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"world"}`, string(raw))
	assert.Equal(t, 1, loaderCalls)

	_, hit := store.data["feed_cache:posts:abc"]
	assert.True(t, hit)
}

func TestCachedJSON_BackfillUsesConfiguredTTL(t *testing.T) {
	svc, store, _ := newFeedQueryFixtureWithConfig(t, config.CacheConfig{TTLSeconds: 90})
	ctx := context.Background()

	_, err := svc.CachedJSON(ctx, "feed_cache:posts:ttl", func(context.Context) (interface{}, error) {
		return map[string]string{"k": "v"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, store.lastTTL)
}

func TestCachedJSON_ZeroTTLConfigFallsBackToDefault(t *testing.T) {
	svc, store, _ := newFeedQueryFixture(t)
	ctx := context.Background()

	_, err := svc.CachedJSON(ctx, "feed_cache:posts:ttl-default", func(context.Context) (interface{}, error) {
		return map[string]string{"k": "v"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, constant.ResponseCacheTTL, store.lastTTL)
}

func TestCachedJSON_LoaderErrorNotCached(t *testing.T) {
	svc, store, _ := newFeedQueryFixture(t)
	ctx := context.Background()

	wantErr := errors.New("db down")
	_, err := svc.CachedJSON(ctx, "feed_cache:posts:err", func(context.Context) (interface{}, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, store.data, "失败的回源不应污染缓存")
}

func TestSearchPosts_InvalidOrderingRejected(t *testing.T) {
	svc, _, index := newFeedQueryFixture(t)

	_, err := svc.SearchPosts(context.Background(), &dto.SearchPostsRequest{Ordering: "author"})
	assert.ErrorIs(t, err, myErrors.ErrInvalidOrderField)
	assert.Nil(t, index.lastQuery, "非法排序不应触达搜索引擎")
}

func TestSearchPosts_PaginationMapsToFromSize(t *testing.T) {
	svc, _, index := newFeedQueryFixture(t)

	_, err := svc.SearchPosts(context.Background(), &dto.SearchPostsRequest{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.NotNil(t, index.lastQuery)
	assert.Equal(t, 20, index.lastQuery.From)
	assert.Equal(t, 10, index.lastQuery.Size)
}

func TestSearchPosts_MapsDocumentsToVO(t *testing.T) {
	svc, _, index := newFeedQueryFixture(t)
	index.result = &es.SearchResult{
		Total: 2,
		Documents: []es.PostDocument{
			{ID: 1, Title: "a", Author: "u1", LikesCount: 3, CommentsCount: 1},
			{ID: 2, Title: "b", Author: "u2"},
		},
	}

	result, err := svc.SearchPosts(context.Background(), &dto.SearchPostsRequest{Query: "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	require.Len(t, result.Posts, 2)
	assert.Equal(t, uint64(1), result.Posts[0].ID)
	assert.Equal(t, int64(3), result.Posts[0].LikesCount)

	// VO 应能直接序列化为响应 JSON
	_, err = json.Marshal(result)
	assert.NoError(t, err)
}
