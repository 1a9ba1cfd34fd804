package parse

import (
	"context"
	"errors"
	"time"

	"shopping-list-api/internal/pkg/common"

	"go.uber.org/zap"
)

// errAmbiguous AI 層無法給出唯一可信結果時回傳，觸發確定性回退
var errAmbiguous = errors.New("ambiguous parse result")

// TextParser 把一行自由文字轉為品項草稿
type TextParser interface {
	Parse(ctx context.Context, text string) (common.ParsedItemDraft, error)
}

// FallbackParser 確定性解析器：總是產生結果，永不回傳錯誤
type FallbackParser struct{}

// Parse 實現 TextParser 介面
func (FallbackParser) Parse(_ context.Context, text string) (common.ParsedItemDraft, error) {
	return ParseShoppingItemFallback(text), nil
}

// Result 解析結果與其來源層
type Result struct {
	Draft  common.ParsedItemDraft `json:"draft"`
	Source common.ParseSource     `json:"source"`
	AIErr  string                 `json:"ai_error,omitempty"` // AI 層失敗時附上原因，草稿仍可編輯
}

// Policy 兩層解析策略：先試 AI，失敗或結果不唯一時回退到確定性解析器
// 方向固定，永遠不會反過來用 AI 覆蓋確定性結果
type Policy struct {
	ai       TextParser // 可為 nil（AI 未啟用）
	fallback TextParser
}

// NewPolicy 創建解析策略；ai 可為 nil
func NewPolicy(ai TextParser) *Policy {
	return &Policy{
		ai:       ai,
		fallback: FallbackParser{},
	}
}

// Parse 執行兩層解析，總是回傳一份草稿
func (p *Policy) Parse(ctx context.Context, text string) Result {
	if p.ai != nil {
		start := time.Now()
		draft, err := p.ai.Parse(ctx, text)
		common.LogAICall(time.Since(start), err)
		if err == nil && !draft.IsAmbiguous {
			return Result{Draft: draft, Source: common.ParseSourceAI}
		}

		fallbackDraft, _ := p.fallback.Parse(ctx, text)
		result := Result{Draft: fallbackDraft, Source: common.ParseSourceFallback}
		if err != nil && !errors.Is(err, errAmbiguous) {
			result.AIErr = err.Error()
			common.LogWarn("AI 解析失敗，改用確定性解析",
				zap.Error(err),
			)
		}
		return result
	}

	draft, _ := p.fallback.Parse(ctx, text)
	return Result{Draft: draft, Source: common.ParseSourceFallback}
}
