// Package cachekey 根据请求的资源路径与查询参数生成确定性的缓存命名空间 Key。
//
// 规则:
//   - 带具体 ID 的路径段     -> "resource:sha256(id)"
//   - 集合(列表)路径段       -> "resource:params:sha256(规范化查询串)"
//   - 各段之间用 ":" 连接
//
// 规范化查询串按参数名字典序排序后以 "key=value&key=value" 拼接，因此
// 相同的路径+参数无论参数顺序如何都得到同一个 Key；哈希使用 SHA-256
// 定长摘要，Key 长度与 ID / 查询串长度无关。
// 本包为纯函数，无任何副作用，空查询集也不会失败（产出 params:sha256("")）。
package cachekey

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// Segment 一个资源路径段。
// ID 为空字符串表示集合端点（列表），此时查询参数参与 Key 的生成。
type Segment struct {
	Resource string
	ID       string
}

// Build 由路径段与查询参数生成缓存 Key。
func Build(segments []Segment, params url.Values) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.ID == "" {
			parts = append(parts, seg.Resource+":params:"+hash(CanonicalQuery(params)))
		} else {
			parts = append(parts, seg.Resource+":"+hash(seg.ID))
		}
	}
	return strings.Join(parts, ":")
}

// FromRequest 从请求路径与查询参数生成缓存 Key。
// 路径被拆成 (resource, id?) 对: 偶数位为资源名，奇数位为 ID；
// 末尾缺少 ID 的资源视为集合端点。开头的 "api" 段（及版本段 "v1"）被剥除，
// 与路由前缀无关。
func FromRequest(path string, params url.Values) string {
	return Build(SegmentsFromPath(path), params)
}

// SegmentsFromPath 把 URL 路径拆解为资源路径段。
func SegmentsFromPath(path string) []Segment {
	raw := strings.Split(path, "/")
	fields := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			fields = append(fields, s)
		}
	}
	// 剥除路由前缀，缓存命名空间只关心资源形状
	for len(fields) > 0 && (fields[0] == "api" || fields[0] == "v1" || fields[0] == "feed") {
		fields = fields[1:]
	}

	segments := make([]Segment, 0, (len(fields)+1)/2)
	for i := 0; i < len(fields); i += 2 {
		seg := Segment{Resource: fields[i]}
		if i+1 < len(fields) {
			seg.ID = fields[i+1]
		}
		segments = append(segments, seg)
	}
	return segments
}

// CanonicalQuery 生成规范化查询串: 参数名字典序排序，"k=v" 以 "&" 连接。
// 多值参数取第一个值，与读路径的绑定行为一致。
func CanonicalQuery(params url.Values) string {
	if len(params) == 0 {
		return ""
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params.Get(name))
	}
	return b.String()
}

// HashID 对单个资源 ID 做定长摘要，供失效规则与 Key 生成共用，
// 保证两侧对同一资源算出同一段。
func HashID(id string) string {
	return hash(id)
}

func hash(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
