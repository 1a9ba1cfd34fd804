package parse

import (
	"context"
	"fmt"
	"strings"

	"shopping-list-api/internal/core/ai/service"
	"shopping-list-api/internal/pkg/common"

	"go.uber.org/zap"
)

// AIParser 透過 AI 服務解析自由文字
// 契約：恰好一筆猜測才可信；零筆或多筆視為 ambiguous，由策略層回退
type AIParser struct {
	aiService *service.Service
}

// NewAIParser 創建 AI 解析器
func NewAIParser(aiService *service.Service) *AIParser {
	return &AIParser{aiService: aiService}
}

const extractionPrompt = `請從下面這一行購物清單輸入中擷取食材(不需要考慮可讀性，請省略所有空格和換行，返回最緊湊的 JSON 格式)。
	要求：
	1. 只擷取輸入中實際出現的食材，不要添加未出現的內容
	2. 每個食材一個物件；無法確定的屬性留空字串，不要猜測
	3. 數量保留原始寫法（"1 1/2"、"0.5" 等），單位用輸入中的單位
	4. 所有欄位必須使用雙引號
	請以以下 JSON 格式返回：
	[{"quantity":"數量","unit":"單位","name":"食材名稱"}]
	輸入：%s`

// Parse 實現 TextParser 介面
func (p *AIParser) Parse(ctx context.Context, text string) (common.ParsedItemDraft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return common.ParsedItemDraft{}, errAmbiguous
	}

	response, err := p.aiService.ProcessRequest(ctx, fmt.Sprintf(extractionPrompt, text))
	if err != nil {
		return common.ParsedItemDraft{}, fmt.Errorf("AI service error: %w", err)
	}

	content := common.ExtractJSONObject(response.Content)
	content = common.QuoteJSONKeys(content)

	var guesses []common.IngredientGuess
	if err := common.ParseJSON(content, &guesses); err != nil {
		return common.ParsedItemDraft{}, fmt.Errorf("failed to parse AI response: %w", err)
	}

	// 零筆或多筆都不可信，寧可回退也不要猜
	if len(guesses) != 1 {
		common.LogDebug("AI 解析結果不唯一",
			zap.Int("guesses", len(guesses)),
		)
		return common.ParsedItemDraft{}, errAmbiguous
	}

	guess := guesses[0]
	if strings.TrimSpace(guess.Name) == "" {
		return common.ParsedItemDraft{}, errAmbiguous
	}

	return common.ParsedItemDraft{
		Quantity:       strings.TrimSpace(guess.Quantity),
		UnitName:       strings.TrimSpace(guess.Unit),
		IngredientName: strings.TrimSpace(guess.Name),
		OriginalText:   text,
	}, nil
}
