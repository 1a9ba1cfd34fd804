package shopping

import (
	"context"
	"net/http"

	"shopping-list-api/internal/core/parse"
	"shopping-list-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ParseRequest 解析請求
// text: 使用者輸入的一行文字
// debounce_key: 可選，帶此鍵表示輸入仍在進行中，伺服器延遲到輸入靜止才解析
type ParseRequest struct {
	Text        string `json:"text" binding:"required"`
	DebounceKey string `json:"debounce_key,omitempty"`
}

// HandleParse 處理 /shopping/parse 文字解析 API
// 兩層策略：AI 優先，失敗或結果不唯一時回退確定性解析，永遠回傳一份草稿
func HandleParse(policy *parse.Policy, debouncer *parse.Debouncer) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := requestID(c)

		var req ParseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogError("請求格式無效",
				zap.Error(err),
				zap.String("request_id", reqID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		// 帶 debounce_key 的請求代表輸入尚未靜止：排程一次解析預熱快取後立即返回，
		// 同鍵的後續請求會取消這一次。最終送出（不帶鍵）的解析因此多半命中快取
		if req.DebounceKey != "" {
			text := req.Text
			debouncer.Schedule(req.DebounceKey, func(ctx context.Context) {
				if ctx.Err() != nil {
					return
				}
				result := policy.Parse(ctx, text)
				common.LogDebug("預解析完成",
					zap.String("debounce_key", req.DebounceKey),
					zap.String("source", string(result.Source)),
					zap.String("draft", common.FormatDraft(result.Draft)),
				)
			})
			c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
			return
		}

		result := policy.Parse(c.Request.Context(), req.Text)

		common.LogInfo("文字解析完成",
			zap.String("request_id", reqID),
			zap.String("source", string(result.Source)),
			zap.Bool("ambiguous", result.Draft.IsAmbiguous),
		)

		c.JSON(http.StatusOK, result)
	}
}
