package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
)

// ==================== 控制器 ====================

// LookupController 基础档案控制器（供应商/品牌/颜色/部件类型）
type LookupController struct {
	lookups repository.LookupRepository
}

func NewLookupController(lookups repository.LookupRepository) *LookupController {
	return &LookupController{lookups: lookups}
}

// ==================== API 方法 ====================

// ListSuppliers 供应商列表
// @Summary 供应商列表
// @Tags Lookup
// @Success 200 {array} model.Supplier
// @Router /api/suppliers [get]
func (ctrl *LookupController) ListSuppliers(c *gin.Context) {
	suppliers, err := ctrl.lookups.ListSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, suppliers)
}

// createSupplierRequest 建档请求
type createSupplierRequest struct {
	Code string `json:"code" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// CreateSupplier 供应商建档
// @Summary 新建供应商
// @Tags Lookup
// @Accept json
// @Produce json
// @Param body body createSupplierRequest true "建档请求"
// @Success 201 {object} model.Supplier
// @Router /api/suppliers [post]
func (ctrl *LookupController) CreateSupplier(c *gin.Context) {
	var req createSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	supplier := &model.Supplier{Code: req.Code, Name: req.Name}
	if err := ctrl.lookups.CreateSupplier(c.Request.Context(), supplier); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, supplier)
}

// ListBrands 品牌列表
// @Summary 品牌列表
// @Tags Lookup
// @Success 200 {array} model.Brand
// @Router /api/brands [get]
func (ctrl *LookupController) ListBrands(c *gin.Context) {
	brands, err := ctrl.lookups.ListBrands(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, brands)
}

// ListColors 颜色列表
// @Summary 颜色列表
// @Tags Lookup
// @Success 200 {array} model.Color
// @Router /api/colors [get]
func (ctrl *LookupController) ListColors(c *gin.Context) {
	colors, err := ctrl.lookups.ListColors(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, colors)
}

// nameRequest 按名建档请求
type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateColor 颜色建档
// @Summary 新建颜色（已存在则返回既有记录）
// @Tags Lookup
// @Accept json
// @Produce json
// @Param body body nameRequest true "建档请求"
// @Success 201 {object} model.Color
// @Router /api/colors [post]
func (ctrl *LookupController) CreateColor(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	color, created, err := ctrl.lookups.FindOrCreateColor(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondOK(c, status, color)
}

// ListComponentTypes 部件类型列表
// @Summary 部件类型列表
// @Tags Lookup
// @Success 200 {array} model.ComponentType
// @Router /api/component-types [get]
func (ctrl *LookupController) ListComponentTypes(c *gin.Context) {
	types, err := ctrl.lookups.ListComponentTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, types)
}

// CreateComponentType 部件类型建档
// @Summary 新建部件类型
// @Tags Lookup
// @Accept json
// @Produce json
// @Param body body nameRequest true "建档请求"
// @Success 201 {object} model.ComponentType
// @Router /api/component-types [post]
func (ctrl *LookupController) CreateComponentType(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}

	componentType := &model.ComponentType{Name: req.Name}
	if err := ctrl.lookups.CreateComponentType(c.Request.Context(), componentType); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, componentType)
}
