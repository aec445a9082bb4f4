package cachekey

import (
	"fmt"
	"math/rand"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DetailSegment(t *testing.T) {
	key := Build([]Segment{{Resource: "posts", ID: "42"}}, nil)
	assert.Equal(t, "posts:"+HashID("42"), key)
}

func TestBuild_ListSegmentWithEmptyQuery(t *testing.T) {
	// 空查询集不报错，产出 params:hash("")
	key := Build([]Segment{{Resource: "posts"}}, nil)
	assert.Equal(t, "posts:params:"+HashID(""), key)

	key2 := Build([]Segment{{Resource: "posts"}}, url.Values{})
	assert.Equal(t, key, key2)
}

func TestBuild_NestedSegments(t *testing.T) {
	params := url.Values{"page": {"2"}}
	key := Build([]Segment{
		{Resource: "posts", ID: "42"},
		{Resource: "comments"},
	}, params)
	want := "posts:" + HashID("42") + ":comments:params:" + HashID("page=2")
	assert.Equal(t, want, key)
}

func TestBuild_QueryOrderInvariance(t *testing.T) {
	a := url.Values{}
	a.Set("a", "1")
	a.Set("b", "2")

	b := url.Values{}
	b.Set("b", "2")
	b.Set("a", "1")

	segs := []Segment{{Resource: "posts"}}
	assert.Equal(t, Build(segs, a), Build(segs, b))
}

func TestBuild_Deterministic_Property(t *testing.T) {
	// 随机参数集：任意插入顺序下 Key 恒等
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		n := rng.Intn(8) + 1
		pairs := make([][2]string, n)
		for j := range pairs {
			pairs[j] = [2]string{fmt.Sprintf("k%d", j), fmt.Sprintf("v%d", rng.Intn(1000))}
		}

		ordered := url.Values{}
		for _, p := range pairs {
			ordered.Set(p[0], p[1])
		}
		shuffled := url.Values{}
		for _, idx := range rng.Perm(n) {
			shuffled.Set(pairs[idx][0], pairs[idx][1])
		}

		segs := []Segment{{Resource: "posts"}}
		require.Equal(t, Build(segs, ordered), Build(segs, shuffled))
	}
}

func TestBuild_DifferentParamsDifferentKeys(t *testing.T) {
	segs := []Segment{{Resource: "posts"}}
	k1 := Build(segs, url.Values{"page": {"1"}})
	k2 := Build(segs, url.Values{"page": {"2"}})
	assert.NotEqual(t, k1, k2)
}

func TestSegmentsFromPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []Segment
	}{
		{"列表端点", "/api/v1/feed/posts", []Segment{{Resource: "posts"}}},
		{"详情端点", "/api/v1/feed/posts/42", []Segment{{Resource: "posts", ID: "42"}}},
		{"嵌套列表", "/api/v1/feed/posts/42/comments", []Segment{
			{Resource: "posts", ID: "42"}, {Resource: "comments"},
		}},
		{"嵌套详情", "/api/v1/feed/posts/42/comments/7", []Segment{
			{Resource: "posts", ID: "42"}, {Resource: "comments", ID: "7"},
		}},
		{"无前缀", "/posts/42", []Segment{{Resource: "posts", ID: "42"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SegmentsFromPath(tt.path))
		})
	}
}

func TestFromRequest_MatchesBuild(t *testing.T) {
	params := url.Values{"search": {"golang"}, "order_by": {"likes_count"}}
	got := FromRequest("/api/v1/feed/posts", params)
	want := Build([]Segment{{Resource: "posts"}}, params)
	assert.Equal(t, want, got)
}
