package service

import "errors"

// 生命周期操作错误分类
// NotFound / DuplicateKey / Validation 上抛到门面边界并映射为结构化失败；
// 资产存储失败按文件聚合计数，从不上抛；
// 数据库失败使整个事务回滚
var (
	// ErrNotFound 部件/变体/图片不存在
	ErrNotFound = errors.New("记录不存在")

	// ErrDuplicateKey 身份冲突（创建或身份变更时）
	ErrDuplicateKey = errors.New("身份冲突")

	// ErrValidation 必填缺失或载荷非法
	ErrValidation = errors.New("参数校验失败")
)
