package es

import (
	"strings"

	"github.com/Xushengqwer/feed_service/myErrors"
)

// 排序字段白名单。用户输入的排序参数只能落在这三个字段上，
// 其他任何值都拒绝，避免把未索引字段或内部字段暴露给查询。
var allowedOrderFields = map[string]bool{
	"modified":       true,
	"comments_count": true,
	"likes_count":    true,
}

// PostQuery 是帖子搜索请求的查询构建器。
// - 纯数据结构，逐步收集条件后由 Build 产出 ES 查询 DSL，便于单元测试。
type PostQuery struct {
	From int
	Size int

	mustClauses   []map[string]interface{}
	filterClauses []map[string]interface{}
	sortClauses   []map[string]interface{}
}

// NewPostQuery 创建查询构建器，默认按修改时间倒序。
func NewPostQuery(from, size int) *PostQuery {
	return &PostQuery{From: from, Size: size}
}

// ApplyTextSearch 添加全文检索条件，对标题做 match。
// - 空查询串不添加任何条件，整个查询退化为 match_all。
func (q *PostQuery) ApplyTextSearch(text string) *PostQuery {
	text = strings.TrimSpace(text)
	if text == "" {
		return q
	}
	q.mustClauses = append(q.mustClauses, map[string]interface{}{
		"match": map[string]interface{}{
			"title": text,
		},
	})
	return q
}

// ApplyOrdering 校验并添加排序条件。排序一律倒序。
// - 空串使用默认排序 (modified 倒序)。
// - 字段不在白名单内时返回 myErrors.ErrInvalidOrderField，调用方应按客户端参数错误处理，
//   不做静默回退。
func (q *PostQuery) ApplyOrdering(ordering string) error {
	ordering = strings.TrimSpace(ordering)
	if ordering == "" {
		return nil
	}

	if !allowedOrderFields[ordering] {
		return myErrors.ErrInvalidOrderField
	}

	q.sortClauses = append(q.sortClauses, map[string]interface{}{
		ordering: map[string]interface{}{"order": "desc"},
	})
	return nil
}

// ApplyGeoFilter 添加地理范围过滤。
// - 三个参数必须同时提供才生效；缺任意一个都静默跳过，不报错。
//   地理过滤是可选的结果收窄手段，参数不全按"未请求过滤"处理。
// - distance 形如 "10km"，直接透传给 ES。
func (q *PostQuery) ApplyGeoFilter(lat, lon *float64, distance string) *PostQuery {
	if lat == nil || lon == nil || strings.TrimSpace(distance) == "" {
		return q
	}
	q.filterClauses = append(q.filterClauses, map[string]interface{}{
		"geo_distance": map[string]interface{}{
			"distance": distance,
			"location": map[string]interface{}{
				"lat": *lat,
				"lon": *lon,
			},
		},
	})
	return q
}

// Build 产出完整的 ES 查询体。
// - 无任何 must 条件时使用 match_all，保证空参数也能翻列表。
// - 无显式排序时默认 modified 倒序，让最新修改的帖子排前面。
func (q *PostQuery) Build() map[string]interface{} {
	boolQuery := map[string]interface{}{}
	if len(q.mustClauses) > 0 {
		boolQuery["must"] = q.mustClauses
	} else {
		boolQuery["must"] = []map[string]interface{}{
			{"match_all": map[string]interface{}{}},
		}
	}
	if len(q.filterClauses) > 0 {
		boolQuery["filter"] = q.filterClauses
	}

	sorts := q.sortClauses
	if len(sorts) == 0 {
		sorts = []map[string]interface{}{
			{"modified": map[string]interface{}{"order": "desc"}},
		}
	}

	return map[string]interface{}{
		"from":  q.From,
		"size":  q.Size,
		"query": map[string]interface{}{"bool": boolQuery},
		"sort":  sorts,
	}
}
