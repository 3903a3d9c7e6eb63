// Package timeout defines centralized timeout constants for AI operations.
// Package timeout 定义 AI 操作的集中式超时常量。
package timeout

import "time"

// AI operation timeout constants.
// AI 操作超时常量。
const (
	// RequestTimeout bounds one model call made for a single task.
	// RequestTimeout 是单个任务调用模型的超时时间。
	RequestTimeout = 30 * time.Second

	// BulkRequestTimeout bounds one model call made for an item of a bulk run.
	// BulkRequestTimeout 是批量任务中每次模型调用的超时时间。
	BulkRequestTimeout = 90 * time.Second

	// ServerWriteTimeout leaves room for a bulk call plus response encoding.
	// ServerWriteTimeout 为批量调用和响应编码预留时间。
	ServerWriteTimeout = BulkRequestTimeout + 30*time.Second

	// MaxTruncateLength is the maximum length for truncating strings in logs.
	// MaxTruncateLength 是日志中字符串截断的最大长度。
	MaxTruncateLength = 200
)
