package translation

import (
	"errors"
	"strings"
)

// 预定义错误
var (
	// ErrMalformedResponse 响应无法解析为预期的 JSON 对象
	ErrMalformedResponse = errors.New("malformed translation response")

	// ErrMissingKeys 解析成功但缺少请求中的路径键
	ErrMissingKeys = errors.New("translation response missing expected keys")

	// ErrEmptyResponse 外部服务返回空响应
	ErrEmptyResponse = errors.New("empty translation response")
)

// ErrorClass 按重试语义划分外部调用失败
type ErrorClass int

const (
	// ClassRetryable 一般可重试失败（解析错误、网络瞬断等）
	ClassRetryable ErrorClass = iota

	// ClassRateLimited 限流/配额/服务繁忙，退避后重试
	ClassRateLimited

	// ClassFatalAPI 认证/权限/资源不存在/永久服务错误。
	// 立刻高可见度上报，但仍走同样的重试预算：单个批次的
	// 致命错误不代表后续批次必然失败（长任务期间可能轮换密钥）。
	ClassFatalAPI
)

// String 实现 fmt.Stringer
func (c ErrorClass) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassFatalAPI:
		return "fatal_api_error"
	default:
		return "retryable"
	}
}

// fatalMarkers 标记认证/权限/不存在/服务端永久错误的信号
var fatalMarkers = []string{
	"400",
	"401",
	"403",
	"404",
	"500",
	"api key not valid",
	"authentication",
	"unauthorized",
	"permission denied",
}

// rateLimitMarkers 标记限流/配额/服务繁忙的信号
var rateLimitMarkers = []string{
	"rate",
	"limit",
	"quota",
	"resource_exhausted",
	"429",
	"503",
}

// Classify 根据错误消息中的信号划分错误类别。
// 同时命中限流信号时优先按限流处理，避免把可恢复的配额问题当成致命错误。
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassRetryable
	}
	msg := strings.ToLower(err.Error())

	rateLimited := containsAny(msg, rateLimitMarkers)
	fatal := containsAny(msg, fatalMarkers)

	switch {
	case fatal && !rateLimited:
		return ClassFatalAPI
	case rateLimited:
		return ClassRateLimited
	default:
		return ClassRetryable
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
