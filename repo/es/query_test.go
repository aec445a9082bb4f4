package es

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/feed_service/myErrors"
)

func TestPostQuery_DefaultIsMatchAllSortedByModifiedDesc(t *testing.T) {
	body := NewPostQuery(0, 20).Build()

	assert.Equal(t, 0, body["from"])
	assert.Equal(t, 20, body["size"])

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	must := boolQuery["must"].([]map[string]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
	assert.NotContains(t, boolQuery, "filter")

	sorts := body["sort"].([]map[string]interface{})
	require.Len(t, sorts, 1)
	assert.Equal(t, map[string]interface{}{"order": "desc"}, sorts[0]["modified"])
}

func TestPostQuery_ApplyTextSearch(t *testing.T) {
	q := NewPostQuery(0, 10).ApplyTextSearch("golang tips")
	body := q.Build()

	must := body["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]map[string]interface{})
	require.Len(t, must, 1)
	match := must[0]["match"].(map[string]interface{})
	assert.Equal(t, "golang tips", match["title"])
}

func TestPostQuery_ApplyTextSearch_BlankIsIgnored(t *testing.T) {
	q := NewPostQuery(0, 10).ApplyTextSearch("   ")
	must := q.Build()["query"].(map[string]interface{})["bool"].(map[string]interface{})["must"].([]map[string]interface{})

	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
}

func TestPostQuery_ApplyOrdering(t *testing.T) {
	tests := []struct {
		name      string
		ordering  string
		wantField string
		wantOrder string
		wantErr   error
	}{
		{name: "按点赞数", ordering: "likes_count", wantField: "likes_count", wantOrder: "desc"},
		{name: "按评论数", ordering: "comments_count", wantField: "comments_count", wantOrder: "desc"},
		{name: "按修改时间", ordering: "modified", wantField: "modified", wantOrder: "desc"},
		{name: "白名单外字段", ordering: "author", wantErr: myErrors.ErrInvalidOrderField},
		{name: "截断的字段名被拒绝", ordering: "likes", wantErr: myErrors.ErrInvalidOrderField},
		{name: "内部字段被拒绝", ordering: "deleted_at", wantErr: myErrors.ErrInvalidOrderField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewPostQuery(0, 10)
			err := q.ApplyOrdering(tt.ordering)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)

			sorts := q.Build()["sort"].([]map[string]interface{})
			require.Len(t, sorts, 1)
			assert.Equal(t, map[string]interface{}{"order": tt.wantOrder}, sorts[0][tt.wantField])
		})
	}
}

func TestPostQuery_ApplyOrdering_EmptyUsesDefault(t *testing.T) {
	q := NewPostQuery(0, 10)
	require.NoError(t, q.ApplyOrdering(""))

	sorts := q.Build()["sort"].([]map[string]interface{})
	require.Len(t, sorts, 1)
	assert.Contains(t, sorts[0], "modified")
}

func TestPostQuery_ApplyGeoFilter(t *testing.T) {
	lat, lon := 31.23, 121.47

	t.Run("三个参数齐全时生效", func(t *testing.T) {
		q := NewPostQuery(0, 10).ApplyGeoFilter(&lat, &lon, "10km")
		boolQuery := q.Build()["query"].(map[string]interface{})["bool"].(map[string]interface{})

		filters := boolQuery["filter"].([]map[string]interface{})
		require.Len(t, filters, 1)
		geo := filters[0]["geo_distance"].(map[string]interface{})
		assert.Equal(t, "10km", geo["distance"])
		assert.Equal(t, map[string]interface{}{"lat": lat, "lon": lon}, geo["location"])
	})

	t.Run("缺少任一参数时静默跳过", func(t *testing.T) {
		cases := []*PostQuery{
			NewPostQuery(0, 10).ApplyGeoFilter(nil, &lon, "10km"),
			NewPostQuery(0, 10).ApplyGeoFilter(&lat, nil, "10km"),
			NewPostQuery(0, 10).ApplyGeoFilter(&lat, &lon, ""),
		}
		for _, q := range cases {
			boolQuery := q.Build()["query"].(map[string]interface{})["bool"].(map[string]interface{})
			assert.NotContains(t, boolQuery, "filter")
		}
	})
}

func TestPostQuery_CombinedConditions(t *testing.T) {
	lat, lon := 39.9, 116.4
	q := NewPostQuery(40, 20).
		ApplyTextSearch("协程").
		ApplyGeoFilter(&lat, &lon, "5km")
	require.NoError(t, q.ApplyOrdering("likes_count"))

	body := q.Build()
	assert.Equal(t, 40, body["from"])
	assert.Equal(t, 20, body["size"])

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["must"], 1)
	assert.Len(t, boolQuery["filter"], 1)

	sorts := body["sort"].([]map[string]interface{})
	require.Len(t, sorts, 1)
	assert.Contains(t, sorts[0], "likes_count")
}
