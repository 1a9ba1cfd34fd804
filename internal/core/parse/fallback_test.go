package parse

import (
	"math"
	"testing"

	"shopping-list-api/internal/pkg/common"
)

func TestParseFractionToken(t *testing.T) {
	tests := []struct {
		token string
		want  float64
		ok    bool
	}{
		{"2", 2, true},
		{"2.5", 2.5, true},
		{"3/4", 0.75, true},
		{"1 1/2", 1.5, true},
		{"10 3/4", 10.75, true},
		{"0/4", 0, true},
		{"1/0", 0, false},
		{"1/-2", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"1 abc", 0, false},
		{"1 1/abc", 0, false},
		{"1/2/3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseFractionToken(tt.token)
		if ok != tt.ok {
			t.Errorf("ParseFractionToken(%q) ok = %v, want %v", tt.token, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseFractionToken(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

func TestFallbackStandardForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want common.ParsedItemDraft
	}{
		{
			name: "quantity unit ingredient",
			text: "2 lbs chicken breast",
			want: common.ParsedItemDraft{Quantity: "2", UnitName: "lbs", IngredientName: "chicken breast", OriginalText: "2 lbs chicken breast"},
		},
		{
			name: "mixed fraction",
			text: "1 1/2 cups flour",
			want: common.ParsedItemDraft{Quantity: "1.5", UnitName: "cups", IngredientName: "flour", OriginalText: "1 1/2 cups flour"},
		},
		{
			name: "bare fraction",
			text: "3/4 cup sugar",
			want: common.ParsedItemDraft{Quantity: "0.75", UnitName: "cup", IngredientName: "sugar", OriginalText: "3/4 cup sugar"},
		},
		{
			name: "quantity and single word defaults unit to whole",
			text: "3 apples",
			want: common.ParsedItemDraft{Quantity: "3", UnitName: "whole", IngredientName: "apples", OriginalText: "3 apples"},
		},
		{
			name: "a dozen",
			text: "a dozen eggs",
			want: common.ParsedItemDraft{Quantity: "12", UnitName: "whole", IngredientName: "eggs", OriginalText: "a dozen eggs"},
		},
		{
			name: "an dozen case-insensitive",
			text: "An Dozen bagels",
			want: common.ParsedItemDraft{Quantity: "12", UnitName: "whole", IngredientName: "bagels", OriginalText: "An Dozen bagels"},
		},
		{
			name: "decimal quantity",
			text: "0.5 kg rice",
			want: common.ParsedItemDraft{Quantity: "0.5", UnitName: "kg", IngredientName: "rice", OriginalText: "0.5 kg rice"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseShoppingItemFallback(tt.text)
			if got != tt.want {
				t.Errorf("ParseShoppingItemFallback(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestFallbackAmbiguousForms(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
	}{
		{"no amount", "soy sauce", "soy sauce"},
		{"amount not leading", "chicken 2 lbs", "chicken 2 lbs"},
		{"word quantity is not parsed", "two apples", "two apples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseShoppingItemFallback(tt.text)
			if !got.IsAmbiguous {
				t.Fatalf("ParseShoppingItemFallback(%q).IsAmbiguous = false, want true", tt.text)
			}
			if got.IngredientName != tt.wantName {
				t.Errorf("IngredientName = %q, want %q", got.IngredientName, tt.wantName)
			}
			if got.Quantity != "" || got.UnitName != "" {
				t.Errorf("ambiguous draft must not carry quantity/unit, got %q %q", got.Quantity, got.UnitName)
			}
			if got.OriginalText != tt.text {
				t.Errorf("OriginalText = %q, want %q", got.OriginalText, tt.text)
			}
		})
	}
}

func TestFallbackWhitespaceNormalization(t *testing.T) {
	got := ParseShoppingItemFallback("  2   lbs\tchicken  ")
	want := common.ParsedItemDraft{
		Quantity:       "2",
		UnitName:       "lbs",
		IngredientName: "chicken",
		OriginalText:   "  2   lbs\tchicken  ",
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestFallbackEmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		got := ParseShoppingItemFallback(text)
		if !got.IsAmbiguous {
			t.Errorf("ParseShoppingItemFallback(%q).IsAmbiguous = false, want true", text)
		}
		if got.IngredientName != "" {
			t.Errorf("IngredientName = %q, want empty", got.IngredientName)
		}
		if got.OriginalText != text {
			t.Errorf("OriginalText = %q, want %q", got.OriginalText, text)
		}
	}
}
