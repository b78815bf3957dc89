package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"component_catalog_v1_202609/internal/controller"

	_ "component_catalog_v1_202609/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	componentCtl *controller.ComponentController,
	pictureCtl *controller.PictureController,
	lookupCtl *controller.LookupController,
	importCtl *controller.ImportController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. API 路由组
	api := r.Group("/api")
	{
		// 部件生命周期
		components := api.Group("/components")
		{
			components.GET("", componentCtl.ListComponents)
			components.POST("", componentCtl.CreateComponent)
			components.GET("/:id", componentCtl.GetComponent)
			components.PUT("/:id", componentCtl.UpdateComponent)
			components.DELETE("/:id", componentCtl.DeleteComponent)
			// POST /api/components/:id/variants
			components.POST("/:id/variants", componentCtl.CreateVariant)
		}
		// 变体
		variants := api.Group("/variants")
		{
			variants.PUT("/:variant_id", componentCtl.UpdateVariant)
			variants.DELETE("/:variant_id", componentCtl.DeleteVariant)
		}
		// 图片
		pictures := api.Group("/pictures")
		{
			pictures.POST("", pictureCtl.AddPicture)
			pictures.POST("/reorder", pictureCtl.ReorderPictures)
			pictures.DELETE("/:id", pictureCtl.DeletePicture)
		}
		// 基础档案
		api.GET("/suppliers", lookupCtl.ListSuppliers)
		api.POST("/suppliers", lookupCtl.CreateSupplier)
		api.GET("/brands", lookupCtl.ListBrands)
		api.GET("/colors", lookupCtl.ListColors)
		api.POST("/colors", lookupCtl.CreateColor)
		api.GET("/component-types", lookupCtl.ListComponentTypes)
		api.POST("/component-types", lookupCtl.CreateComponentType)
		// CSV 批量导入导出
		api.POST("/import/components", importCtl.ImportCSV)
		api.GET("/import/jobs", importCtl.ListImportJobs)
		api.GET("/export/components", importCtl.ExportCSV)
	}
}
