package shopping

import (
	"net/http"

	"shopping-list-api/internal/core/parse"
	shoppingCore "shopping-list-api/internal/core/shopping"
	"shopping-list-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddItemRequest 新增品項請求
// 兩種形式擇一：
//   - text: 自由文字，先經兩層解析再調和
//   - ingredient_name (+ unit_name / quantity): 結構化欄位，通常是使用者修正過的草稿
//
// quantity 為字串以與草稿往返一致，空字串表示未知數量
type AddItemRequest struct {
	Text           string `json:"text,omitempty"`
	IngredientName string `json:"ingredient_name,omitempty"`
	UnitName       string `json:"unit_name,omitempty"`
	Quantity       string `json:"quantity,omitempty"`
	CategoryKey    string `json:"category_key,omitempty"`
	IconKey        string `json:"icon_key,omitempty"`
}

// AddItemResponse 新增品項回應；text 路徑附帶解析來源與草稿
type AddItemResponse struct {
	Item   *shoppingCore.Item      `json:"item"`
	Draft  *common.ParsedItemDraft `json:"draft,omitempty"`
	Source common.ParseSource      `json:"source,omitempty"`
	AIErr  string                  `json:"ai_error,omitempty"`
}

// HandleAddItem 處理 POST /shopping/lists/:listID/items
func HandleAddItem(svc *shoppingCore.Service, policy *parse.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestID(c)

		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}

		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		resp := AddItemResponse{}
		incoming := shoppingCore.Incoming{
			UnitName:             req.UnitName,
			IngredientName:       req.IngredientName,
			SubmittedCategoryKey: req.CategoryKey,
			SubmittedIconKey:     req.IconKey,
		}
		quantityRaw := req.Quantity

		if req.Text != "" {
			result := policy.Parse(c.Request.Context(), req.Text)
			resp.Draft = &result.Draft
			resp.Source = result.Source
			resp.AIErr = result.AIErr

			incoming.UnitName = result.Draft.UnitName
			incoming.IngredientName = result.Draft.IngredientName
			quantityRaw = result.Draft.Quantity
		}

		if incoming.IngredientName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "text or ingredient_name is required"})
			return
		}

		quantity, err := shoppingCore.ParseQuantity(quantityRaw)
		if err != nil {
			respondError(c, err)
			return
		}
		incoming.Quantity = quantity

		item, err := svc.MergeOrInsert(c.Request.Context(), listID, incoming)
		if err != nil {
			respondError(c, err)
			return
		}
		resp.Item = item

		common.LogInfo("品項請求完成",
			zap.String("request_id", reqID),
			zap.Int64("list_id", listID),
			zap.Int64("item_id", item.ID),
			zap.String("source", string(resp.Source)),
		)
		c.JSON(http.StatusCreated, resp)
	}
}

// ToggleRequest 勾選請求；checked 省略時為切換，帶值時強制設定
type ToggleRequest struct {
	Checked *bool `json:"checked,omitempty"`
}

// HandleToggleItem 處理 POST /shopping/items/:itemID/toggle
func HandleToggleItem(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "itemID")
		if !ok {
			return
		}

		var req ToggleRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
				return
			}
		}

		item, err := svc.ToggleCheck(c.Request.Context(), itemID, req.Checked)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// HandleDeleteItem 處理 DELETE /shopping/items/:itemID
func HandleDeleteItem(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "itemID")
		if !ok {
			return
		}

		if err := svc.SoftRemove(c.Request.Context(), itemID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleClearCompleted 處理 POST /shopping/lists/:listID/clear-completed
func HandleClearCompleted(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}

		if err := svc.ClearCompleted(c.Request.Context(), listID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleClearAll 處理 POST /shopping/lists/:listID/clear-all
func HandleClearAll(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, ok := pathID(c, "listID")
		if !ok {
			return
		}

		if err := svc.ClearAll(c.Request.Context(), listID); err != nil {
			respondError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// SwipeRequest 滑動手勢請求
// offset: 手指放開時的水平位移（px，左滑為負）
// revealed: 該品項目前是否已露出刪除鈕
type SwipeRequest struct {
	Offset   float64 `json:"offset"`
	Revealed bool    `json:"revealed"`
}

// SwipeResponse 滑動手勢回應；revealed 為套用後的露出狀態
type SwipeResponse struct {
	Action   shoppingCore.SwipeAction `json:"action"`
	Revealed bool                     `json:"revealed"`
}

// HandleSwipeItem 處理 POST /shopping/items/:itemID/swipe
// confirmDelete 在伺服器端即為軟刪除，客戶端不需要再發第二個請求
func HandleSwipeItem(svc *shoppingCore.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := pathID(c, "itemID")
		if !ok {
			return
		}

		var req SwipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		action := shoppingCore.ResolveSwipeAction(req.Offset, req.Revealed)

		resp := SwipeResponse{Action: action, Revealed: req.Revealed}
		switch action {
		case shoppingCore.SwipeActionReveal:
			resp.Revealed = true
		case shoppingCore.SwipeActionDismiss:
			resp.Revealed = false
		case shoppingCore.SwipeActionConfirmDelete:
			if err := svc.SoftRemove(c.Request.Context(), itemID); err != nil {
				respondError(c, err)
				return
			}
			resp.Revealed = false
		}

		c.JSON(http.StatusOK, resp)
	}
}
