package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHashtags(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "单个标签",
			content: "今天研究了一下 #golang 的调度器",
			want:    []string{"golang"},
		},
		{
			name:    "多个标签保序",
			content: "#golang 和 #kafka 的组合 #golang2",
			want:    []string{"golang", "kafka", "golang2"},
		},
		{
			name:    "重复标签去重",
			content: "#go #go #go",
			want:    []string{"go"},
		},
		{
			name:    "标点截断标签",
			content: "快来看 #news! 以及 #tech,很有意思",
			want:    []string{"news", "tech"},
		},
		{
			name:    "无标签",
			content: "平平无奇的一段正文",
			want:    []string{},
		},
		{
			name:    "裸井号不算标签",
			content: "C# 不是标签，# 后面没字符也不是",
			want:    []string{},
		},
		{
			name:    "下划线与数字是合法字符",
			content: "#go_1_18 发布了",
			want:    []string{"go_1_18"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHashtags(tt.content))
		})
	}
}
