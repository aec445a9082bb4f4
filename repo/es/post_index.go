package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// GeoPoint 是 ES geo_point 字段的文档表示。
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PostDocument 是帖子在搜索索引中的文档结构。
// - 文档是帖子与其统计计数的拍平视图，由搜索同步消费者在每次相关事件后整体重建。
// - 整体重建 (而非增量 update) 让乱序事件不会在索引里留下部分旧字段:
//   文档内容只取决于重建时刻的数据库状态。
type PostDocument struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	Location      *GeoPoint `json:"location,omitempty"`
	Created       time.Time `json:"created"`
	Modified      time.Time `json:"modified"`
}

// SearchResult 是一次帖子搜索的结果。
type SearchResult struct {
	Total     int64
	Documents []PostDocument
}

// PostIndexRepository 定义了帖子搜索索引的操作接口。
type PostIndexRepository interface {
	// UpsertPost 将文档整体写入索引，已存在则完整覆盖。
	UpsertPost(ctx context.Context, doc *PostDocument) error

	// DeletePost 从索引中删除帖子文档。幂等: 文档不存在视为成功。
	DeletePost(ctx context.Context, postID uint64) error

	// SearchPosts 执行查询构建器产出的 DSL 并解析命中。
	SearchPosts(ctx context.Context, query *PostQuery) (*SearchResult, error)
}

// postIndexRepository 是 PostIndexRepository 接口的 go-elasticsearch 实现。
type postIndexRepository struct {
	client    *elasticsearch.Client
	logger    *core.ZapLogger
	indexName string
}

// NewPostIndexRepository 创建 PostIndexRepository 实例。
func NewPostIndexRepository(client *elasticsearch.Client, logger *core.ZapLogger, indexName string) PostIndexRepository {
	return &postIndexRepository{client: client, logger: logger, indexName: indexName}
}

func (r *postIndexRepository) UpsertPost(ctx context.Context, doc *PostDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("序列化帖子文档失败 (PostID: %d): %w", doc.ID, err)
	}

	res, err := r.client.Index(
		r.indexName,
		bytes.NewReader(body),
		r.client.Index.WithDocumentID(strconv.FormatUint(doc.ID, 10)),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		r.logger.Error("写入搜索索引失败", zap.Error(err), zap.Uint64("postID", doc.ID))
		return fmt.Errorf("写入搜索索引失败 (PostID: %d): %w", doc.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg := readErrorBody(res.Body)
		r.logger.Error("搜索索引返回错误响应",
			zap.Uint64("postID", doc.ID),
			zap.String("status", res.Status()),
			zap.String("response", msg),
		)
		return fmt.Errorf("写入搜索索引失败 (PostID: %d): %s", doc.ID, res.Status())
	}

	r.logger.Debug("帖子文档已写入搜索索引", zap.Uint64("postID", doc.ID))
	return nil
}

func (r *postIndexRepository) DeletePost(ctx context.Context, postID uint64) error {
	res, err := r.client.Delete(
		r.indexName,
		strconv.FormatUint(postID, 10),
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		r.logger.Error("删除搜索索引文档失败", zap.Error(err), zap.Uint64("postID", postID))
		return fmt.Errorf("删除搜索索引文档失败 (PostID: %d): %w", postID, err)
	}
	defer res.Body.Close()

	// 404 表示文档本就不在索引里 (删除事件先于创建事件到达，或重复删除)，视为成功。
	if res.StatusCode == 404 {
		r.logger.Debug("搜索索引中无此文档，删除视为成功", zap.Uint64("postID", postID))
		return nil
	}
	if res.IsError() {
		msg := readErrorBody(res.Body)
		r.logger.Error("搜索索引删除返回错误响应",
			zap.Uint64("postID", postID),
			zap.String("status", res.Status()),
			zap.String("response", msg),
		)
		return fmt.Errorf("删除搜索索引文档失败 (PostID: %d): %s", postID, res.Status())
	}
	return nil
}

func (r *postIndexRepository) SearchPosts(ctx context.Context, query *PostQuery) (*SearchResult, error) {
	body, err := json.Marshal(query.Build())
	if err != nil {
		return nil, fmt.Errorf("序列化搜索查询失败: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.indexName),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		r.logger.Error("执行搜索查询失败", zap.Error(err))
		return nil, fmt.Errorf("执行搜索查询失败: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg := readErrorBody(res.Body)
		r.logger.Error("搜索查询返回错误响应",
			zap.String("status", res.Status()),
			zap.String("response", msg),
		)
		return nil, fmt.Errorf("搜索查询失败: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source PostDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析搜索响应失败: %w", err)
	}

	result := &SearchResult{
		Total:     parsed.Hits.Total.Value,
		Documents: make([]PostDocument, 0, len(parsed.Hits.Hits)),
	}
	for _, hit := range parsed.Hits.Hits {
		result.Documents = append(result.Documents, hit.Source)
	}
	return result, nil
}

func readErrorBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 2048))
	if err != nil {
		return ""
	}
	return string(data)
}
