package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// ImportController CSV 批量导入/导出控制器
type ImportController struct {
	csv *service.CSVService
	uow *repository.CatalogUnitOfWork
}

func NewImportController(csv *service.CSVService, uow *repository.CatalogUnitOfWork) *ImportController {
	return &ImportController{csv: csv, uow: uow}
}

// ==================== API 方法 ====================

// ImportCSV 导入部件
// @Summary 上传 CSV 批量导入部件
// @Tags Import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV 文件"
// @Success 200 {object} model.ImportJob
// @Router /api/import/components [post]
func (ctrl *ImportController) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "缺少文件: "+err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondBadRequest(c, "文件读取失败: "+err.Error())
		return
	}
	defer file.Close()

	job, err := ctrl.csv.ImportComponents(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, job)
}

// ExportCSV 导出部件
// @Summary 导出全部部件为 CSV
// @Tags Import
// @Produce text/csv
// @Success 200 {string} string "CSV 内容"
// @Router /api/export/components [get]
func (ctrl *ImportController) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="components.csv"`)
	if err := ctrl.csv.ExportComponents(c.Request.Context(), c.Writer); err != nil {
		respondError(c, err)
		return
	}
}

// ListImportJobs 导入任务列表
// @Summary 最近的导入任务
// @Tags Import
// @Success 200 {array} model.ImportJob
// @Router /api/import/jobs [get]
func (ctrl *ImportController) ListImportJobs(c *gin.Context) {
	jobs, err := ctrl.uow.ImportJobs.List(c.Request.Context(), 50)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, jobs)
}
