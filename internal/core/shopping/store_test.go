package shopping

import (
	"context"
	"errors"
	"testing"

	"shopping-list-api/internal/infrastructure/database"
	"shopping-list-api/internal/pkg/common"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestFindOrCreateUnitCaseFolded(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	first, err := store.FindOrCreateUnit(ctx, store.db, "Lbs")
	if err != nil {
		t.Fatalf("create unit: %v", err)
	}
	if first.Name != "lbs" {
		t.Errorf("unit name = %q, want %q", first.Name, "lbs")
	}

	second, err := store.FindOrCreateUnit(ctx, store.db, "  LBS ")
	if err != nil {
		t.Fatalf("find unit: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("unit ids differ: %d vs %d", second.ID, first.ID)
	}
}

func TestFindOrCreateUnitEmpty(t *testing.T) {
	store := setupTestStore(t)

	unit, err := store.FindOrCreateUnit(context.Background(), store.db, "   ")
	if err != nil {
		t.Fatalf("empty unit: %v", err)
	}
	if unit != nil {
		t.Errorf("expected nil unit for empty name, got %+v", unit)
	}
}

func TestFindOrCreateIngredientRefEmpty(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.FindOrCreateIngredientRef(context.Background(), store.db, "  ")
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if vErr.Field != "ingredient_name" {
		t.Errorf("field = %q, want %q", vErr.Field, "ingredient_name")
	}
}

func TestMaxActiveSortIndexEmptyList(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	list, err := store.CreateList(ctx, "groceries")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	max, err := store.MaxActiveSortIndex(ctx, store.db, list.ID)
	if err != nil {
		t.Fatalf("max sort index: %v", err)
	}
	if max != -1 {
		t.Errorf("max = %d, want -1", max)
	}
}

func TestGetListNotFound(t *testing.T) {
	store := setupTestStore(t)

	list, err := store.GetList(context.Background(), 9999)
	if err != nil {
		t.Fatalf("get list: %v", err)
	}
	if list != nil {
		t.Errorf("expected nil for nonexistent list, got %+v", list)
	}
}

func TestAddRecipeIngredientDuplicate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	recipe, err := store.CreateRecipe(ctx, "pancakes")
	if err != nil {
		t.Fatalf("create recipe: %v", err)
	}

	qty := 2.0
	if _, err := store.AddRecipeIngredient(ctx, recipe.ID, "cups", "flour", &qty); err != nil {
		t.Fatalf("add ingredient: %v", err)
	}

	// 同單位同食材重複加入是驗證錯誤，不做靜默合併
	_, err = store.AddRecipeIngredient(ctx, recipe.ID, "Cups", "Flour", &qty)
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for duplicate, got %v", err)
	}

	// 不同單位是不同的識別鍵
	if _, err := store.AddRecipeIngredient(ctx, recipe.ID, "grams", "flour", &qty); err != nil {
		t.Fatalf("add same ingredient with different unit: %v", err)
	}

	ingredients, err := store.RecipeIngredients(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("list ingredients: %v", err)
	}
	if len(ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %d", len(ingredients))
	}
}

func TestAddRecipeIngredientNilUnitDuplicate(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	recipe, _ := store.CreateRecipe(ctx, "salad")

	if _, err := store.AddRecipeIngredient(ctx, recipe.ID, "", "lettuce", nil); err != nil {
		t.Fatalf("add ingredient without unit: %v", err)
	}

	// 兩個 NULL 單位視為同一識別鍵
	_, err := store.AddRecipeIngredient(ctx, recipe.ID, "", "lettuce", nil)
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for duplicate with null unit, got %v", err)
	}
}
