package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/controller"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/internal/router"
	"component_catalog_v1_202609/internal/service"
	"component_catalog_v1_202609/internal/task"
	"component_catalog_v1_202609/pkg/config"
	"component_catalog_v1_202609/pkg/database"
	"component_catalog_v1_202609/pkg/logger"
)

// @title 部件目录服务 API
// @version 1.0
// @description 部件生命周期管理：身份、变体、图片与资产命名
// @BasePath /
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	// 2. 初始化数据库
	db := initDatabase(cfg)

	// 3. 初始化依赖
	deps := initDependencies(db, cfg)

	// 4. 启动定时任务
	initTasks(deps, cfg)

	// 5. 初始化路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()
	router.InitRoutes(r, deps.ComponentCtl, deps.PictureCtl, deps.LookupCtl, deps.ImportCtl)

	// 6. 启动服务
	startServer(r, cfg)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB  *gorm.DB
	Uow *repository.CatalogUnitOfWork

	Lifecycle *service.ComponentLifecycleService
	Pictures  *service.PictureService
	CSV       *service.CSVService

	ComponentCtl *controller.ComponentController
	PictureCtl   *controller.PictureController
	LookupCtl    *controller.LookupController
	ImportCtl    *controller.ImportController

	AuditTask *task.NameAuditTask
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库并迁移全部表
func initDatabase(cfg *config.Config) *gorm.DB {
	pool := database.PoolOptions{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	return database.InitDB(cfg.Database.DSN(), pool,
		// 基础档案
		&model.Supplier{}, &model.Brand{}, &model.Subbrand{},
		&model.Category{}, &model.Keyword{}, &model.Color{}, &model.ComponentType{},
		// 部件
		&model.Component{}, &model.ComponentVariant{}, &model.Picture{},
		// 关联链接
		&model.ComponentBrand{}, &model.ComponentCategory{}, &model.ComponentKeyword{},
		// 导入任务与改名流水
		&model.ImportJob{}, &model.RenameLog{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB, cfg *config.Config) *Dependencies {
	uow := repository.NewCatalogUnitOfWork(db)

	// -------- 资产存储 --------
	provider, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:   cfg.Storage.Provider,
		BaseURL:    cfg.Storage.BaseURL,
		Username:   cfg.Storage.Username,
		Password:   cfg.Storage.Password,
		Bucket:     cfg.Storage.Bucket,
		Region:     cfg.Storage.Region,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		BasePath:   cfg.Storage.BasePath,
		LocalDir:   cfg.Storage.LocalDir,
		RetryCount: cfg.Storage.RetryCount,
	})
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}
	assets := service.NewAssetGateway(provider, cfg.Storage.RetryCount)

	// -------- 业务服务 --------
	lifecycle := service.NewComponentLifecycleService(uow, assets)
	pictures := service.NewPictureService(uow, assets)
	csvSvc := service.NewCSVService(uow, lifecycle)

	return &Dependencies{
		DB:  db,
		Uow: uow,

		Lifecycle: lifecycle,
		Pictures:  pictures,
		CSV:       csvSvc,

		ComponentCtl: controller.NewComponentController(lifecycle),
		PictureCtl:   controller.NewPictureController(pictures),
		LookupCtl:    controller.NewLookupController(uow.Lookups),
		ImportCtl:    controller.NewImportController(csvSvc, uow),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies, cfg *config.Config) {
	if !cfg.Audit.Enabled {
		return
	}
	deps.AuditTask = task.NewNameAuditTask(deps.Uow, cfg.Audit.CronSpec)
	deps.AuditTask.Start()
	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, cfg *config.Config) {
	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}
	logger.Sync()
	log.Println("服务已退出")
}
