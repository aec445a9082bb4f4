package service

import (
	"regexp"
)

// hashtagPattern 匹配正文中的话题标签: "#" 后跟连续的单词字符。
// 标点或空白截断标签，"#" 自身不入库。
var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractHashtags 从正文中提取话题标签名 (去重，保留首次出现顺序)。
// 正文没有标签时返回空切片，帖子的标签组会被整组替换为空。
func ExtractHashtags(content string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(content, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
