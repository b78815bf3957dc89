package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/internal/service"
	"component_catalog_v1_202609/pkg/logger"
)

// ==================== 命名稽核任务 ====================

// NameAuditTask 命名稽核任务
// 定期全量扫描图片表，重算每张图的规范名并与数据库里的逻辑名比对。
// 改名级联的文件移动可能失败（数据库为准、文件滞后），
// 稽核只报告偏差，不自动修复——修复动作应由人工经改名接口触发
type NameAuditTask struct {
	uow  *repository.CatalogUnitOfWork
	Cron *cron.Cron

	spec     string // cron 表达式（秒级）
	pageSize int
}

// AuditReport 单轮稽核结果
type AuditReport struct {
	Scanned   int
	Divergent int
	Orphaned  int // 归属方已不存在的图片行
}

func NewNameAuditTask(uow *repository.CatalogUnitOfWork, spec string) *NameAuditTask {
	if spec == "" {
		// 默认每天凌晨 3 点
		spec = "0 0 3 * * *"
	}
	return &NameAuditTask{
		uow:      uow,
		Cron:     cron.New(cron.WithSeconds()),
		spec:     spec,
		pageSize: 500,
	}
}

// Start 启动稽核任务
func (t *NameAuditTask) Start() {
	_, err := t.Cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if _, err := t.Execute(ctx); err != nil {
			logger.Get().Error("命名稽核执行失败", zap.Error(err))
		}
	})
	if err != nil {
		log.Fatalf("无法启动 NameAuditTask: %v", err)
	}

	t.Cron.Start()
	log.Printf("NameAuditTask 稽核任务已启动 (cron: %s)", t.spec)
}

// Stop 停止稽核任务
func (t *NameAuditTask) Stop() {
	t.Cron.Stop()
	log.Println("NameAuditTask 稽核任务已停止")
}

// Execute 执行一轮全量稽核
func (t *NameAuditTask) Execute(ctx context.Context) (*AuditReport, error) {
	report := &AuditReport{}

	// 单轮内缓存归属方，避免每张图都打两次库
	components := make(map[int64]*model.Component)
	variants := make(map[int64]*model.ComponentVariant)

	offset := 0
	for {
		pictures, err := t.uow.Pictures.ListPage(ctx, offset, t.pageSize)
		if err != nil {
			return nil, err
		}
		if len(pictures) == 0 {
			break
		}

		for i := range pictures {
			pic := &pictures[i]
			report.Scanned++

			expected, ok := t.expectedName(ctx, pic, components, variants)
			if !ok {
				report.Orphaned++
				logger.Get().Warn("稽核发现孤儿图片",
					zap.Int64("picture_id", pic.ID),
					zap.String("name", pic.Name),
				)
				continue
			}
			if expected != pic.Name {
				report.Divergent++
				logger.Get().Warn("稽核发现命名偏差",
					zap.Int64("picture_id", pic.ID),
					zap.String("current", pic.Name),
					zap.String("expected", expected),
				)
			}
		}

		if len(pictures) < t.pageSize {
			break
		}
		offset += t.pageSize
	}

	logger.Get().Info("命名稽核完成",
		zap.Int("scanned", report.Scanned),
		zap.Int("divergent", report.Divergent),
		zap.Int("orphaned", report.Orphaned),
	)
	return report, nil
}

// expectedName 按归属方当前身份重算规范名；归属方缺失返回 ok=false
func (t *NameAuditTask) expectedName(ctx context.Context, pic *model.Picture, components map[int64]*model.Component, variants map[int64]*model.ComponentVariant) (string, bool) {
	var component *model.Component
	var colorName *string

	switch owner := pic.Owner(); owner.Kind {
	case model.OwnerVariant:
		variant, ok := variants[owner.ID]
		if !ok {
			loaded, err := t.uow.Variants.GetByID(ctx, owner.ID)
			if err != nil {
				return "", false
			}
			variant = loaded
			variants[owner.ID] = variant
		}
		if variant.Color != nil {
			colorName = &variant.Color.Name
		}
		component = t.componentCached(ctx, variant.ComponentID, components)
	case model.OwnerComponent:
		component = t.componentCached(ctx, owner.ID, components)
	default:
		return "", false
	}

	if component == nil {
		return "", false
	}
	return service.GenerateAssetName(component.SupplierCode(), component.ProductNumber, colorName, pic.Position), true
}

func (t *NameAuditTask) componentCached(ctx context.Context, id int64, cache map[int64]*model.Component) *model.Component {
	if c, ok := cache[id]; ok {
		return c
	}
	c, err := t.uow.Components.GetByID(ctx, id)
	if err != nil {
		return nil
	}
	cache[id] = c
	return c
}
