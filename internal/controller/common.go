package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"component_catalog_v1_202609/internal/service"
)

// ==================== 通用响应 ====================

// respondError 按错误类型映射 HTTP 状态
// 未知错误一律 500，不向外泄漏内部细节以外的结构
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateKey):
		status = http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}

// respondOK 成功载荷
func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"code":    0,
		"message": "success",
		"data":    data,
	})
}

// respondBadRequest 请求解析失败
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code":    400,
		"message": msg,
	})
}
