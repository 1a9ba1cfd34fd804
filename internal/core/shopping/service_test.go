package shopping

import (
	"context"
	"math"
	"testing"

	"shopping-list-api/internal/infrastructure/database"
)

func setupTestService(t *testing.T) (*Service, *Store, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := NewStore(db)
	list, err := store.CreateList(context.Background(), "groceries")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	return NewService(store), store, list.ID
}

func fptr(v float64) *float64 {
	return &v
}

func TestMergeAccumulatesQuantity(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	first, err := svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "lbs", IngredientName: "chicken", Quantity: fptr(2)})
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}

	// 大小寫不同仍是同一識別鍵
	second, err := svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "Lbs", IngredientName: "Chicken", Quantity: fptr(1)})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("expected merge into existing row, got ids %d and %d", first.ID, second.ID)
	}
	if second.Quantity == nil || *second.Quantity != 3 {
		t.Errorf("quantity = %v, want 3", second.Quantity)
	}

	items, err := svc.ListItems(ctx, listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 active row, got %d", len(items))
	}
}

func TestDifferentUnitIsDifferentIdentity(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "lbs", IngredientName: "chicken", Quantity: fptr(2)})
	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "chicken", Quantity: fptr(1)})

	items, err := svc.ListItems(ctx, listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 rows for different units, got %d", len(items))
	}
}

func TestAbsentQuantityLeavesExisting(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "milk", Quantity: fptr(2)})

	// 沒有量的一筆提及不得抹掉先前已知的數量
	item, err := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "milk"})
	if err != nil {
		t.Fatalf("merge without quantity: %v", err)
	}
	if item.Quantity == nil || *item.Quantity != 2 {
		t.Errorf("quantity = %v, want 2", item.Quantity)
	}
}

func TestQuantityAfterQuantityless(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "milk"})

	item, err := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "milk", Quantity: fptr(2)})
	if err != nil {
		t.Fatalf("merge with quantity: %v", err)
	}
	if item.Quantity == nil || *item.Quantity != 2 {
		t.Errorf("quantity = %v, want 2", item.Quantity)
	}
}

func TestSoftDeleteRoundTrip(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	item, err := svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "lbs", IngredientName: "chicken", Quantity: fptr(2)})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := svc.SoftRemove(ctx, item.ID); err != nil {
		t.Fatalf("soft remove: %v", err)
	}
	items, _ := svc.ListItems(ctx, listID)
	if len(items) != 0 {
		t.Fatalf("expected 0 active rows after remove, got %d", len(items))
	}

	// 同識別鍵重新加入要復活舊列，不產生第二列
	revived, err := svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "lbs", IngredientName: "chicken", Quantity: fptr(1)})
	if err != nil {
		t.Fatalf("re-add: %v", err)
	}
	if revived.ID != item.ID {
		t.Errorf("revived id = %d, want %d", revived.ID, item.ID)
	}
	if revived.DeletedAt != nil {
		t.Error("deleted_at should be cleared on revival")
	}

	items, _ = svc.ListItems(ctx, listID)
	if len(items) != 1 {
		t.Fatalf("expected 1 active row after revival, got %d", len(items))
	}
}

func TestRemoveMissingItem(t *testing.T) {
	svc, _, _ := setupTestService(t)

	if err := svc.SoftRemove(context.Background(), 9999); err == nil {
		t.Error("expected error for nonexistent item")
	}
}

func TestReorderPartitionsCheckedLast(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	a, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "apples"})
	b, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "bread"})
	c, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "coffee"})

	if _, err := svc.ToggleCheck(ctx, a.ID, nil); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	items, err := svc.ListItems(ctx, listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	// 未勾選在前，已勾選在後，索引密集 0..N-1
	wantOrder := []int64{b.ID, c.ID, a.ID}
	for i, item := range items {
		if item.ID != wantOrder[i] {
			t.Errorf("items[%d].ID = %d, want %d", i, item.ID, wantOrder[i])
		}
		if item.SortIndex != i {
			t.Errorf("items[%d].SortIndex = %d, want %d", i, item.SortIndex, i)
		}
	}
	if items[2].CheckedAt == nil || !items[2].Checked {
		t.Error("checked item should stay checked after reorder")
	}
}

func TestReorderIdempotent(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "apples"})
	item, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "bread"})
	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "coffee"})
	svc.ToggleCheck(ctx, item.ID, nil)

	before, _ := svc.ListItems(ctx, listID)
	if err := svc.Reorder(ctx, listID); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if err := svc.Reorder(ctx, listID); err != nil {
		t.Fatalf("reorder again: %v", err)
	}
	after, _ := svc.ListItems(ctx, listID)

	if len(before) != len(after) {
		t.Fatalf("length changed: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if before[i].ID != after[i].ID || before[i].SortIndex != after[i].SortIndex {
			t.Errorf("order changed at %d: %d/%d vs %d/%d", i, before[i].ID, before[i].SortIndex, after[i].ID, after[i].SortIndex)
		}
	}
}

func TestToggleExplicitState(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	item, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "milk"})

	checked := true
	got, err := svc.ToggleCheck(ctx, item.ID, &checked)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Checked || got.CheckedAt == nil {
		t.Error("expected checked item")
	}

	// 再強制設 true 不翻回來
	got, err = svc.ToggleCheck(ctx, item.ID, &checked)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !got.Checked {
		t.Error("explicit true should be idempotent")
	}

	unchecked := false
	got, err = svc.ToggleCheck(ctx, item.ID, &unchecked)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got.Checked || got.CheckedAt != nil {
		t.Error("expected unchecked item")
	}
}

func TestAppendAtEnd(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	first, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "apples"})
	second, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "bread"})

	if first.SortIndex != 0 {
		t.Errorf("first sort index = %d, want 0", first.SortIndex)
	}
	if second.SortIndex != 1 {
		t.Errorf("second sort index = %d, want 1", second.SortIndex)
	}
}

func TestScaleFactorGuard(t *testing.T) {
	svc, store, _ := setupTestService(t)
	ctx := context.Background()

	recipe, _ := store.CreateRecipe(ctx, "pancakes")
	if _, err := store.AddRecipeIngredient(ctx, recipe.ID, "cups", "flour", fptr(2)); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	for _, factor := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		list, err := store.CreateList(ctx, "guard")
		if err != nil {
			t.Fatalf("create list: %v", err)
		}
		items, err := svc.AddFromRecipe(ctx, list.ID, recipe.ID, factor)
		if err != nil {
			t.Fatalf("import with factor %v: %v", factor, err)
		}
		if len(items) != 1 {
			t.Fatalf("expected 1 item, got %d", len(items))
		}
		if items[0].Quantity == nil || *items[0].Quantity != 2 {
			t.Errorf("factor %v: quantity = %v, want 2 (treated as 1x)", factor, items[0].Quantity)
		}
	}
}

func TestScaleFactorApplied(t *testing.T) {
	svc, store, listID := setupTestService(t)
	ctx := context.Background()

	recipe, _ := store.CreateRecipe(ctx, "pancakes")
	store.AddRecipeIngredient(ctx, recipe.ID, "cups", "flour", fptr(2))
	store.AddRecipeIngredient(ctx, recipe.ID, "", "eggs", fptr(3))

	items, err := svc.AddFromRecipe(ctx, listID, recipe.ID, 1.5)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if *items[0].Quantity != 3 {
		t.Errorf("flour quantity = %v, want 3", *items[0].Quantity)
	}
	if *items[1].Quantity != 4.5 {
		t.Errorf("eggs quantity = %v, want 4.5", *items[1].Quantity)
	}
}

func TestRecipeImportUnchecksMergedItem(t *testing.T) {
	svc, store, listID := setupTestService(t)
	ctx := context.Background()

	item, _ := svc.MergeOrInsert(ctx, listID, Incoming{UnitName: "cups", IngredientName: "flour", Quantity: fptr(1)})
	checked := true
	svc.ToggleCheck(ctx, item.ID, &checked)

	recipe, _ := store.CreateRecipe(ctx, "pancakes")
	store.AddRecipeIngredient(ctx, recipe.ID, "cups", "flour", fptr(2))

	// 從食譜重新加入代表使用者要買回來
	if _, err := svc.AddFromRecipe(ctx, listID, recipe.ID, 1); err != nil {
		t.Fatalf("import: %v", err)
	}

	got, err := svc.ListItems(ctx, listID)
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected merge into existing row, got %d rows", len(got))
	}
	if got[0].Checked || got[0].CheckedAt != nil {
		t.Error("merged item should be unchecked after recipe import")
	}
	if *got[0].Quantity != 3 {
		t.Errorf("quantity = %v, want 3", *got[0].Quantity)
	}
}

func TestClearCompleted(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	a, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "apples"})
	b, _ := svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "bread"})
	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "coffee"})

	svc.ToggleCheck(ctx, a.ID, nil)
	svc.ToggleCheck(ctx, b.ID, nil)

	if err := svc.ClearCompleted(ctx, listID); err != nil {
		t.Fatalf("clear completed: %v", err)
	}

	items, _ := svc.ListItems(ctx, listID)
	if len(items) != 1 {
		t.Fatalf("expected 1 remaining item, got %d", len(items))
	}
	if items[0].IngredientName != "coffee" {
		t.Errorf("remaining item = %q, want %q", items[0].IngredientName, "coffee")
	}
	if items[0].SortIndex != 0 {
		t.Errorf("sort index = %d, want 0 after re-densify", items[0].SortIndex)
	}
}

func TestClearAll(t *testing.T) {
	svc, _, listID := setupTestService(t)
	ctx := context.Background()

	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "apples"})
	svc.MergeOrInsert(ctx, listID, Incoming{IngredientName: "bread"})

	if err := svc.ClearAll(ctx, listID); err != nil {
		t.Fatalf("clear all: %v", err)
	}

	items, _ := svc.ListItems(ctx, listID)
	if len(items) != 0 {
		t.Errorf("expected empty list, got %d items", len(items))
	}
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw     string
		want    *float64
		wantErr bool
	}{
		{"", nil, false},
		{"2", fptr(2), false},
		{"1.5", fptr(1.5), false},
		{"-1", nil, true},
		{"NaN", nil, true},
		{"Inf", nil, true},
		{"2abc", nil, true},
		{"abc", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseQuantity(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseQuantity(%q): expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuantity(%q): %v", tt.raw, err)
			continue
		}
		if (got == nil) != (tt.want == nil) {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		if got != nil && *got != *tt.want {
			t.Errorf("ParseQuantity(%q) = %v, want %v", tt.raw, *got, *tt.want)
		}
	}
}
