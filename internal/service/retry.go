package service

import (
	"context"
	"log"
	"time"
)

// Retry 带指数退避的重试，延迟依次为 baseDelay、2×、4×……
// ctx 取消时立即放弃
func Retry[T any](ctx context.Context, maxRetries int, baseDelay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		val, err := fn()
		if err == nil {
			return val, nil
		}
		lastErr = err
		log.Printf("[Retry] 第 %d/%d 次尝试失败: %v", attempt, maxRetries, err)

		if attempt == maxRetries {
			break
		}

		delay := baseDelay << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
