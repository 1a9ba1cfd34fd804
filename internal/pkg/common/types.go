package common

import (
	"fmt"
	"strings"
)

// ParsedItemDraft 解析後的品項草稿（僅存在於單次請求，不落地）
type ParsedItemDraft struct {
	Quantity       string `json:"quantity"`        // 數量字串，可為空
	UnitName       string `json:"unit_name"`       // 單位名稱，可為空
	IngredientName string `json:"ingredient_name"` // 食材名稱
	IsAmbiguous    bool   `json:"is_ambiguous"`    // true 表示無法確定拆分數量/單位/食材
	OriginalText   string `json:"original_text"`   // 原始輸入，供使用者修正後重送
}

// IngredientGuess AI 解析出的單一食材猜測
type IngredientGuess struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
}

// ParseSource 標記草稿由哪一層解析器產生
type ParseSource string

const (
	ParseSourceAI       ParseSource = "ai"
	ParseSourceFallback ParseSource = "fallback"
)

// Affordance 品項的呈現提示（分類與圖示）
type Affordance struct {
	CategoryKey   string `json:"category_key"`
	CategoryLabel string `json:"category_label"`
	IconKey       string `json:"icon_key"`
}

// FormatDraft 格式化草稿內容（用於日誌記錄）
func FormatDraft(d ParsedItemDraft) string {
	var sb strings.Builder
	if d.Quantity != "" {
		sb.WriteString(d.Quantity)
		sb.WriteString(" ")
	}
	if d.UnitName != "" {
		sb.WriteString(d.UnitName)
		sb.WriteString(" ")
	}
	sb.WriteString(d.IngredientName)
	if d.IsAmbiguous {
		sb.WriteString(" (ambiguous)")
	}
	return sb.String()
}

// FormatQuantity 將可為空的數量轉為顯示字串
func FormatQuantity(q *float64) string {
	if q == nil {
		return ""
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", *q), "0"), ".")
}
