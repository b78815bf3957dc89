package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once     sync.Once
	instance *zap.Logger
)

// Get 返回全局 logger（懒初始化）
func Get() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stdout"}
		l, err := cfg.Build()
		if err != nil {
			panic(err)
		}
		instance = l
	})
	return instance
}

// Sync 刷新缓冲日志，进程退出前调用
func Sync() {
	if instance != nil {
		_ = instance.Sync()
	}
}
