package myErrors

import "errors"

// ErrCacheMiss 表示在缓存层未找到对应的键值
var ErrCacheMiss = errors.New("cache: key not found (miss)")

// ErrInvalidOrderField 表示读路径传入了不被识别的排序字段。
// 属于校验类错误: 同步返回给调用方（HTTP 400），而不是静默回退默认排序。
var ErrInvalidOrderField = errors.New("search: unrecognized order field")

// ErrAlreadyLiked 表示用户已对该帖子有一条活跃点赞
var ErrAlreadyLiked = errors.New("like: user already liked this post")

// ErrNotOwner 表示当前用户不是目标资源的作者，无权执行该操作
var ErrNotOwner = errors.New("auth: user is not the resource owner")
