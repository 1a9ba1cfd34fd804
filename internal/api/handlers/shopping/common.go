package shopping

import (
	"errors"
	"net/http"
	"strconv"

	"shopping-list-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// requestID 取得或補發請求 ID
func requestID(c *gin.Context) string {
	id := c.GetHeader("X-Request-ID")
	if id == "" {
		id = common.GenerateUUID()
		c.Header("X-Request-ID", id)
	}
	return id
}

// pathID 解析路徑中的數字 ID
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid " + name,
			"code":  common.ErrCodeInvalidRequest,
		})
		return 0, false
	}
	return id, true
}

// respondError 將業務錯誤映射為 HTTP 響應
func respondError(c *gin.Context, err error) {
	var vErr *common.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": vErr.Error(),
			"field": vErr.Field,
			"code":  common.ErrCodeUnprocessable,
		})
		return
	}

	var cErr *common.CustomError
	if errors.As(err, &cErr) {
		c.JSON(cErr.Status, gin.H{
			"error": cErr.Message,
			"code":  cErr.Code,
		})
		return
	}

	common.LogError("未處理的錯誤",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
