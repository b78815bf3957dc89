package controller

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/service"
)

// ==================== 控制器 ====================

// PictureController 图片控制器
type PictureController struct {
	pictures *service.PictureService
}

func NewPictureController(pictures *service.PictureService) *PictureController {
	return &PictureController{pictures: pictures}
}

// ownerFromRequest 从表单解析图片归属（component_id / variant_id 二选一）
func ownerFromRequest(req *dto.AddPictureRequest) (model.OwnerRef, bool) {
	hasComponent := req.ComponentID > 0
	hasVariant := req.VariantID > 0
	if hasComponent == hasVariant {
		return model.OwnerRef{}, false
	}
	if hasVariant {
		return model.OwnerRef{Kind: model.OwnerVariant, ID: req.VariantID}, true
	}
	return model.OwnerRef{Kind: model.OwnerComponent, ID: req.ComponentID}, true
}

// ==================== API 方法 ====================

// AddPicture 上传图片
// @Summary 为部件或变体上传图片
// @Tags Picture
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Param component_id formData int false "部件ID（与 variant_id 二选一）"
// @Param variant_id formData int false "变体ID（与 component_id 二选一）"
// @Success 201 {object} dto.PictureResp
// @Router /api/pictures [post]
func (ctrl *PictureController) AddPicture(c *gin.Context) {
	var req dto.AddPictureRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}
	owner, ok := ownerFromRequest(&req)
	if !ok {
		respondBadRequest(c, "component_id 与 variant_id 必须且只能传一个")
		return
	}

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
	data, err := io.ReadAll(file)
	if err != nil {
		respondBadRequest(c, "文件读取失败: "+err.Error())
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")

	picture, err := ctrl.pictures.AddPicture(c.Request.Context(), owner, data, contentType, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, service.ToPictureResp(picture))
}

// DeletePicture 删除图片
// @Summary 删除单张图片
// @Tags Picture
// @Param id path int true "图片ID"
// @Success 200 {object} dto.DeleteResult
// @Router /api/pictures/{id} [delete]
func (ctrl *PictureController) DeletePicture(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result, err := ctrl.pictures.DeletePicture(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// reorderRequest 排序请求体
type reorderRequest struct {
	ComponentID int64   `json:"component_id"`
	VariantID   int64   `json:"variant_id"`
	OrderedIDs  []int64 `json:"ordered_ids" binding:"required"`
}

// ReorderPictures 重排图片
// @Summary 重排归属方的图片（序号变化触发文件改名）
// @Tags Picture
// @Accept json
// @Produce json
// @Param body body reorderRequest true "排序请求"
// @Success 200 {object} dto.RenameOutcome
// @Router /api/pictures/reorder [post]
func (ctrl *PictureController) ReorderPictures(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "参数错误: "+err.Error())
		return
	}
	owner, ok := ownerFromRequest(&dto.AddPictureRequest{ComponentID: req.ComponentID, VariantID: req.VariantID})
	if !ok {
		respondBadRequest(c, "component_id 与 variant_id 必须且只能传一个")
		return
	}

	outcome, err := ctrl.pictures.ReorderPictures(c.Request.Context(), owner, req.OrderedIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, outcome)
}
