package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"shopping-list-api/internal/pkg/common"
)

// 開頭數量：混合數 "1 1/2"、純分數 "3/4" 或十進位數 "2" / "2.5"，
// 後面至少一個空格與非空剩餘字串
var leadingAmountPattern = regexp.MustCompile(`^(\d+ \d+/\d+|\d+/\d+|\d+(?:\.\d+)?)\s+(\S.*)$`)

var dozenPattern = regexp.MustCompile(`(?i)^an? dozen\s+(\S.*)$`)

// ParseFractionToken 將數量 token 轉為浮點數
// 混合數為整數 + 分子/分母；分母為零或結果非有限值視為解析失敗
func ParseFractionToken(token string) (float64, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}

	// 混合數 "<int> <int>/<int>"
	if whole, frac, ok := strings.Cut(token, " "); ok {
		w, err := strconv.ParseFloat(whole, 64)
		if err != nil {
			return 0, false
		}
		f, ok := parseBareFraction(frac)
		if !ok {
			return 0, false
		}
		return finite(w + f)
	}

	// 純分數 "<int>/<int>"
	if strings.Contains(token, "/") {
		f, ok := parseBareFraction(token)
		if !ok {
			return 0, false
		}
		return finite(f)
	}

	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

func parseBareFraction(token string) (float64, bool) {
	num, den, ok := strings.Cut(token, "/")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return n / d, true
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseShoppingItemFallback 確定性解析一行購物輸入
// 永不失敗：拆不出 數量+單位+食材 的輸入一律標記 ambiguous 並保留原文，
// 寧可請使用者確認，也不要把錯的數量靜默加到錯的食材上
func ParseShoppingItemFallback(text string) common.ParsedItemDraft {
	original := text
	normalized := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")

	if normalized == "" {
		return common.ParsedItemDraft{
			IsAmbiguous:  true,
			OriginalText: original,
		}
	}

	// 固定片語 "a dozen X"，不是通用的數字單詞解析
	if m := dozenPattern.FindStringSubmatch(normalized); m != nil {
		return common.ParsedItemDraft{
			Quantity:       "12",
			UnitName:       "whole",
			IngredientName: m[1],
			OriginalText:   original,
		}
	}

	m := leadingAmountPattern.FindStringSubmatch(normalized)
	if m == nil {
		// 找不到數量，整串視為食材名稱
		return common.ParsedItemDraft{
			IngredientName: normalized,
			IsAmbiguous:    true,
			OriginalText:   original,
		}
	}

	quantity, ok := ParseFractionToken(m[1])
	if !ok {
		return common.ParsedItemDraft{
			IngredientName: normalized,
			IsAmbiguous:    true,
			OriginalText:   original,
		}
	}

	remainder := m[2]
	first, rest, hasRest := strings.Cut(remainder, " ")
	if !hasRest {
		// 只剩一個詞：那是食材，單位預設 whole
		return common.ParsedItemDraft{
			Quantity:       formatQuantity(quantity),
			UnitName:       "whole",
			IngredientName: first,
			OriginalText:   original,
		}
	}

	return common.ParsedItemDraft{
		Quantity:       formatQuantity(quantity),
		UnitName:       first,
		IngredientName: rest,
		OriginalText:   original,
	}
}

func formatQuantity(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
