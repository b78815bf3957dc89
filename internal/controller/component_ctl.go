package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// ComponentController 部件控制器
type ComponentController struct {
	lifecycle *service.ComponentLifecycleService
}

func NewComponentController(lifecycle *service.ComponentLifecycleService) *ComponentController {
	return &ComponentController{lifecycle: lifecycle}
}

// parseID 解析路径里的正整数 ID
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "无效的 "+name)
		return 0, false
	}
	return id, true
}

// ==================== API 方法 ====================

// CreateComponent 创建部件
// @Summary 创建部件
// @Tags Component
// @Accept json
// @Produce json
// @Param body body dto.CreateComponentRequest true "创建请求"
// @Success 201 {object} dto.ComponentResult
// @Router /api/components [post]
func (ctrl *ComponentController) CreateComponent(c *gin.Context) {
	var req dto.CreateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.lifecycle.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

// GetComponent 获取部件详情
// @Summary 获取部件详情（含变体、图片、关联）
// @Tags Component
// @Param id path int true "部件ID"
// @Success 200 {object} dto.ComponentResp
// @Router /api/components/{id} [get]
func (ctrl *ComponentController) GetComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.lifecycle.GetComponent(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// ListComponents 部件列表
// @Summary 分页查询部件
// @Tags Component
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param supplier_id query int false "供应商ID"
// @Param component_type_id query int false "部件类型ID"
// @Param keyword query string false "货号/描述模糊匹配"
// @Success 200 {object} dto.ComponentListResp
// @Router /api/components [get]
func (ctrl *ComponentController) ListComponents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	supplierID, _ := strconv.ParseInt(c.Query("supplier_id"), 10, 64)
	typeID, _ := strconv.ParseInt(c.Query("component_type_id"), 10, 64)

	filter := repository.ComponentFilter{
		SupplierID:      supplierID,
		ComponentTypeID: typeID,
		Keyword:         c.Query("keyword"),
		Page:            page,
		PageSize:        pageSize,
	}

	resps, total, err := ctrl.lifecycle.ListComponents(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ComponentListResp{
		Code:     0,
		Message:  "success",
		Data:     resps,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// UpdateComponent 更新部件
// @Summary 更新部件（身份变更触发文件改名级联）
// @Tags Component
// @Accept json
// @Produce json
// @Param id path int true "部件ID"
// @Param body body dto.UpdateComponentRequest true "更新请求"
// @Success 200 {object} dto.ComponentResult
// @Router /api/components/{id} [put]
func (ctrl *ComponentController) UpdateComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateComponentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.lifecycle.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// DeleteComponent 删除部件
// @Summary 级联删除部件（变体、图片、关联、文件）
// @Tags Component
// @Param id path int true "部件ID"
// @Success 200 {object} dto.DeleteResult
// @Router /api/components/{id} [delete]
func (ctrl *ComponentController) DeleteComponent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.lifecycle.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// ==================== 变体 ====================

// CreateVariant 新建变体
// @Summary 为部件新建色彩变体
// @Tags Variant
// @Accept json
// @Produce json
// @Param id path int true "部件ID"
// @Param body body dto.CreateVariantRequest true "创建请求"
// @Success 201 {object} dto.VariantResp
// @Router /api/components/{id}/variants [post]
func (ctrl *ComponentController) CreateVariant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	variant, err := ctrl.lifecycle.CreateVariant(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, service.ToVariantResp(variant))
}

// UpdateVariant 更新变体
// @Summary 更新变体（颜色变更触发该变体图片改名）
// @Tags Variant
// @Accept json
// @Produce json
// @Param variant_id path int true "变体ID"
// @Param body body dto.UpdateVariantRequest true "更新请求"
// @Success 200 {object} dto.ComponentResult
// @Router /api/variants/{variant_id} [put]
func (ctrl *ComponentController) UpdateVariant(c *gin.Context) {
	id, ok := parseID(c, "variant_id")
	if !ok {
		return
	}
	var req dto.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := ctrl.lifecycle.UpdateVariant(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// DeleteVariant 删除变体
// @Summary 删除变体及其图片
// @Tags Variant
// @Param variant_id path int true "变体ID"
// @Success 200 {object} dto.DeleteResult
// @Router /api/variants/{variant_id} [delete]
func (ctrl *ComponentController) DeleteVariant(c *gin.Context) {
	id, ok := parseID(c, "variant_id")
	if !ok {
		return
	}

	result, err := ctrl.lifecycle.DeleteVariant(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
