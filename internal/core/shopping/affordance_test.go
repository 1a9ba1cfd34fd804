package shopping

import "testing"

func TestClassifyByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"milk", "dairy"},
		{"Milk", "dairy"},
		{"  eggs  ", "dairy"},
		{"chicken", "meat"},
		{"ground turkey", "meat"},
		{"chicken breast", "meat"},
		{"frozen peas", "frozen"},
		{"sourdough bread", "bakery"},
		{"olive oil", "pantry"},
		{"hot sauce", "pantry"},
		{"orange juice", "beverage"},
		{"strawberries", "produce"},
		{"raspberries", "produce"},
		{"bell pepper", "produce"},
		{"paper towels", "other"},
		{"", "other"},
	}
	for _, tt := range tests {
		got := ResolveAffordance(tt.name, "", "")
		if got.CategoryKey != tt.want {
			t.Errorf("ResolveAffordance(%q) category = %q, want %q", tt.name, got.CategoryKey, tt.want)
		}
	}
}

func TestSubstringOrderIsSpecificFirst(t *testing.T) {
	// "frozen chicken" 要命中 frozen 而不是 chicken
	got := ResolveAffordance("frozen chicken", "", "")
	if got.CategoryKey != "frozen" {
		t.Errorf("category = %q, want %q", got.CategoryKey, "frozen")
	}

	// "cream cheese" 完全相符優先於子字串
	got = ResolveAffordance("cream cheese", "", "")
	if got.CategoryKey != "dairy" {
		t.Errorf("category = %q, want %q", got.CategoryKey, "dairy")
	}
}

func TestSubmittedCategoryWins(t *testing.T) {
	// 名稱推斷會給 dairy，但呼叫端帶回的鍵優先
	got := ResolveAffordance("milk", "beverage", "")
	if got.CategoryKey != "beverage" {
		t.Errorf("category = %q, want %q", got.CategoryKey, "beverage")
	}
	if got.IconKey != "cup" {
		t.Errorf("icon = %q, want %q", got.IconKey, "cup")
	}
}

func TestSubmittedIconWins(t *testing.T) {
	got := ResolveAffordance("milk", "", "custom-icon")
	if got.CategoryKey != "dairy" {
		t.Errorf("category = %q, want %q", got.CategoryKey, "dairy")
	}
	if got.IconKey != "custom-icon" {
		t.Errorf("icon = %q, want %q", got.IconKey, "custom-icon")
	}
}

func TestUnknownSubmittedCategoryKeptAsIs(t *testing.T) {
	got := ResolveAffordance("milk", "household", "")
	if got.CategoryKey != "household" {
		t.Errorf("category = %q, want %q", got.CategoryKey, "household")
	}
	if got.IconKey != "basket" {
		t.Errorf("icon = %q, want %q", got.IconKey, "basket")
	}
}

func TestDefaultAffordance(t *testing.T) {
	got := ResolveAffordance("mystery thing", "", "")
	if got.CategoryKey != "other" || got.IconKey != "basket" {
		t.Errorf("got %+v, want other/basket", got)
	}
}
