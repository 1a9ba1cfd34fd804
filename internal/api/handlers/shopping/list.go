package shopping

import (
	"net/http"

	shoppingCore "shopping-list-api/internal/core/shopping"
	"shopping-list-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateListRequest 建立清單請求
type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

// HandleCreateList 處理 POST /shopping/lists
func HandleCreateList(store *shoppingCore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestID(c)

		var req CreateListRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		list, err := store.CreateList(c.Request.Context(), req.Name)
		if err != nil {
			respondError(c, err)
			return
		}

		common.LogInfo("清單已建立",
			zap.String("request_id", reqID),
			zap.Int64("list_id", list.ID),
		)
		c.JSON(http.StatusCreated, list)
	}
}

// HandleGetItems 處理 GET /shopping/lists/:listID/items
func HandleGetItems(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}

		items, err := svc.ListItems(c.Request.Context(), listID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// ViewRequest 顯示調和請求：客戶端回報手上的樂觀覆寫
type ViewRequest struct {
	Checked map[int64]bool `json:"checked_overrides"`
	Removed map[int64]bool `json:"removed_overrides"`
}

// HandleViewList 處理 POST /shopping/lists/:listID/view
// 以伺服器清單為準套用客戶端的樂觀覆寫，回傳顯示清單與清理後的覆寫
func HandleViewList(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}

		var req ViewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		items, err := svc.ListItems(c.Request.Context(), listID)
		if err != nil {
			respondError(c, err)
			return
		}

		overrides := shoppingCore.Overrides{Checked: req.Checked, Removed: req.Removed}
		display, cleaned := shoppingCore.ReconcileDisplay(items, overrides)

		c.JSON(http.StatusOK, gin.H{
			"items":     display,
			"overrides": cleaned,
		})
	}
}
