package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"shopping-list-api/internal/pkg/common"
)

// Store 購物清單持久層（SQLite）
type Store struct {
	db *sql.DB
}

// NewStore 創建持久層
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// dbtx 讓同一組查詢同時適用於 *sql.DB 與 *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx 在單一交易中執行 fn，失敗時回滾
// 調和操作（識別解析 + upsert + 重排）必須整體成功或整體不寫入
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- 清單 ---

// CreateList 建立購物清單
func (s *Store) CreateList(ctx context.Context, name string) (*ShoppingList, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (name, created_at, updated_at) VALUES (?, ?, ?)`,
		name, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &ShoppingList{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetList 取得購物清單
func (s *Store) GetList(ctx context.Context, id int64) (*ShoppingList, error) {
	var l ShoppingList
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM shopping_lists WHERE id = ?`, id,
	).Scan(&l.ID, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &l, nil
}

// --- 識別解析（單位 / 食材的 find-or-create）---

// FindOrCreateUnit 以小寫名稱查詢或建立單位；空名稱回傳 nil（無單位）
func (s *Store) FindOrCreateUnit(ctx context.Context, q dbtx, name string) (*Unit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}

	var u Unit
	err := q.QueryRowContext(ctx, `SELECT id, name FROM units WHERE name = ?`, name).Scan(&u.ID, &u.Name)
	if err == nil {
		return &u, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find unit: %w", err)
	}

	result, err := q.ExecContext(ctx, `INSERT INTO units (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Unit{ID: id, Name: name}, nil
}

// FindOrCreateIngredientRef 以小寫名稱查詢或建立食材參照
func (s *Store) FindOrCreateIngredientRef(ctx context.Context, q dbtx, name string) (*IngredientRef, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, common.NewValidationError("ingredient_name", "ingredient name is required")
	}

	var ref IngredientRef
	err := q.QueryRowContext(ctx, `SELECT id, name FROM ingredient_refs WHERE name = ?`, name).Scan(&ref.ID, &ref.Name)
	if err == nil {
		return &ref, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find ingredient ref: %w", err)
	}

	result, err := q.ExecContext(ctx, `INSERT INTO ingredient_refs (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert ingredient ref: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &IngredientRef{ID: id, Name: name}, nil
}

// --- 品項 ---

const itemCols = `i.id, i.list_id, i.unit_id, COALESCE(u.name, ''), i.ingredient_ref_id, r.name,
	i.quantity, i.checked, i.checked_at, i.sort_index, i.category_key, i.icon_key,
	i.deleted_at, i.created_at, i.updated_at`

const itemJoin = ` FROM shopping_list_items i
	LEFT JOIN units u ON u.id = i.unit_id
	JOIN ingredient_refs r ON r.id = i.ingredient_ref_id`

func scanItem(scanner interface{ Scan(...any) error }) (*Item, error) {
	var item Item
	var unitID sql.NullInt64
	var quantity sql.NullFloat64
	var checked int
	var checkedAt, deletedAt sql.NullTime

	err := scanner.Scan(
		&item.ID, &item.ListID, &unitID, &item.UnitName, &item.IngredientRefID, &item.IngredientName,
		&quantity, &checked, &checkedAt, &item.SortIndex, &item.CategoryKey, &item.IconKey,
		&deletedAt, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	if unitID.Valid {
		item.UnitID = &unitID.Int64
	}
	if quantity.Valid {
		item.Quantity = &quantity.Float64
	}
	if checkedAt.Valid {
		t := checkedAt.Time
		item.CheckedAt = &t
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		item.DeletedAt = &t
	}
	return &item, nil
}

// GetItem 取得品項（含已軟刪除者）
func (s *Store) GetItem(ctx context.Context, q dbtx, id int64) (*Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemCols+itemJoin+` WHERE i.id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// FindItemByIdentity 以 (清單, 單位, 食材) 識別鍵查詢品項
// 包含已軟刪除的列：同一識別鍵重新加入時要復活舊列，而不是插入第二列
func (s *Store) FindItemByIdentity(ctx context.Context, q dbtx, listID int64, unitID *int64, ingredientRefID int64) (*Item, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+itemCols+itemJoin+` WHERE i.list_id = ? AND i.unit_id IS ? AND i.ingredient_ref_id = ?`,
		listID, unitIDValue(unitID), ingredientRefID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by identity: %w", err)
	}
	return item, nil
}

func unitIDValue(unitID *int64) any {
	if unitID == nil {
		return nil
	}
	return *unitID
}

// MaxActiveSortIndex 目前清單中未刪除品項的最大排序索引；無品項時回傳 -1
func (s *Store) MaxActiveSortIndex(ctx context.Context, q dbtx, listID int64) (int, error) {
	var max sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT MAX(sort_index) FROM shopping_list_items WHERE list_id = ? AND deleted_at IS NULL`,
		listID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max sort index: %w", err)
	}
	if !max.Valid {
		return -1, nil
	}
	return int(max.Int64), nil
}

// InsertItem 插入新品項
func (s *Store) InsertItem(ctx context.Context, q dbtx, item *Item) (*Item, error) {
	now := time.Now().UTC()
	var qty any
	if item.Quantity != nil {
		qty = *item.Quantity
	}
	result, err := q.ExecContext(ctx,
		`INSERT INTO shopping_list_items
			(list_id, unit_id, ingredient_ref_id, quantity, checked, checked_at, sort_index, category_key, icon_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 0, NULL, ?, ?, ?, ?, ?)`,
		item.ListID, unitIDValue(item.UnitID), item.IngredientRefID, qty,
		item.SortIndex, item.CategoryKey, item.IconKey, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, q, id)
}

// MergeItem 將一筆來源合併進既有品項：更新數量與呈現提示、清除軟刪除標記
// uncheck 為 true 時同時取消勾選（食譜匯入路徑）
func (s *Store) MergeItem(ctx context.Context, q dbtx, id int64, quantity *float64, categoryKey, iconKey string, uncheck bool) error {
	var qty any
	if quantity != nil {
		qty = *quantity
	}
	var err error
	if uncheck {
		_, err = q.ExecContext(ctx,
			`UPDATE shopping_list_items
			 SET quantity = ?, category_key = ?, icon_key = ?, deleted_at = NULL,
			     checked = 0, checked_at = NULL, updated_at = ?
			 WHERE id = ?`,
			qty, categoryKey, iconKey, time.Now().UTC(), id,
		)
	} else {
		_, err = q.ExecContext(ctx,
			`UPDATE shopping_list_items
			 SET quantity = ?, category_key = ?, icon_key = ?, deleted_at = NULL, updated_at = ?
			 WHERE id = ?`,
			qty, categoryKey, iconKey, time.Now().UTC(), id,
		)
	}
	if err != nil {
		return fmt.Errorf("merge item: %w", err)
	}
	return nil
}

// ActiveItems 取得清單中所有未刪除品項，依顯示順序排列
func (s *Store) ActiveItems(ctx context.Context, q dbtx, listID int64) ([]Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+itemCols+itemJoin+` WHERE i.list_id = ? AND i.deleted_at IS NULL ORDER BY i.sort_index ASC, i.id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetChecked 設定勾選狀態；checkedAt 為 nil 表示取消勾選
func (s *Store) SetChecked(ctx context.Context, q dbtx, id int64, checkedAt *time.Time) error {
	checked := 0
	var at any
	if checkedAt != nil {
		checked = 1
		at = *checkedAt
	}
	_, err := q.ExecContext(ctx,
		`UPDATE shopping_list_items SET checked = ?, checked_at = ?, updated_at = ? WHERE id = ?`,
		checked, at, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("set checked: %w", err)
	}
	return nil
}

// SoftDelete 軟刪除單一品項
func (s *Store) SoftDelete(ctx context.Context, q dbtx, id int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE shopping_list_items SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("soft delete item: %w", err)
	}
	return nil
}

// SoftDeleteCompleted 軟刪除清單中所有已勾選品項
func (s *Store) SoftDeleteCompleted(ctx context.Context, q dbtx, listID int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE shopping_list_items SET deleted_at = ?, updated_at = ?
		 WHERE list_id = ? AND deleted_at IS NULL AND checked = 1`,
		time.Now().UTC(), time.Now().UTC(), listID,
	)
	if err != nil {
		return fmt.Errorf("soft delete completed: %w", err)
	}
	return nil
}

// SoftDeleteAll 軟刪除清單中所有未刪除品項
func (s *Store) SoftDeleteAll(ctx context.Context, q dbtx, listID int64) error {
	_, err := q.ExecContext(ctx,
		`UPDATE shopping_list_items SET deleted_at = ?, updated_at = ?
		 WHERE list_id = ? AND deleted_at IS NULL`,
		time.Now().UTC(), time.Now().UTC(), listID,
	)
	if err != nil {
		return fmt.Errorf("soft delete all: %w", err)
	}
	return nil
}

// UpdateSortIndex 寫入重排後的排序索引，並讓 checked 布林與 checked_at 保持一致
func (s *Store) UpdateSortIndex(ctx context.Context, q dbtx, id int64, sortIndex int, checked bool) error {
	c := 0
	if checked {
		c = 1
	}
	_, err := q.ExecContext(ctx,
		`UPDATE shopping_list_items SET sort_index = ?, checked = ? WHERE id = ?`,
		sortIndex, c, id,
	)
	if err != nil {
		return fmt.Errorf("update sort index: %w", err)
	}
	return nil
}

// --- 食譜讀取模型 ---

// CreateRecipe 建立食譜
func (s *Store) CreateRecipe(ctx context.Context, name string) (*Recipe, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `INSERT INTO recipes (name, created_at) VALUES (?, ?)`, name, now)
	if err != nil {
		return nil, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Recipe{ID: id, Name: name, CreatedAt: now}, nil
}

// GetRecipe 取得食譜
func (s *Store) GetRecipe(ctx context.Context, id int64) (*Recipe, error) {
	var r Recipe
	err := s.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM recipes WHERE id = ?`, id).
		Scan(&r.ID, &r.Name, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &r, nil
}

// AddRecipeIngredient 加入食譜食材
// 與購物清單不同：同識別鍵重複加入是欄位驗證錯誤，不做靜默合併
func (s *Store) AddRecipeIngredient(ctx context.Context, recipeID int64, unitName, ingredientName string, quantity *float64) (*RecipeIngredient, error) {
	var ri *RecipeIngredient
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		unit, err := s.FindOrCreateUnit(ctx, tx, unitName)
		if err != nil {
			return err
		}
		ref, err := s.FindOrCreateIngredientRef(ctx, tx, ingredientName)
		if err != nil {
			return err
		}

		var unitID *int64
		if unit != nil {
			unitID = &unit.ID
		}

		var existing int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM recipe_ingredients WHERE recipe_id = ? AND unit_id IS ? AND ingredient_ref_id = ?`,
			recipeID, unitIDValue(unitID), ref.ID,
		).Scan(&existing)
		if err == nil {
			return common.NewValidationError("ingredient_name", "ingredient already present with the same unit")
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check duplicate recipe ingredient: %w", err)
		}

		var qty any
		if quantity != nil {
			qty = *quantity
		}
		result, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, unit_id, ingredient_ref_id, quantity) VALUES (?, ?, ?, ?)`,
			recipeID, unitIDValue(unitID), ref.ID, qty,
		)
		if err != nil {
			return fmt.Errorf("insert recipe ingredient: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("last insert id: %w", err)
		}

		ri = &RecipeIngredient{
			ID:              id,
			RecipeID:        recipeID,
			UnitID:          unitID,
			IngredientRefID: ref.ID,
			IngredientName:  ref.Name,
			Quantity:        quantity,
		}
		if unit != nil {
			ri.UnitName = unit.Name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ri, nil
}

// RecipeIngredients 取得食譜的所有食材項，供匯入路徑消費
func (s *Store) RecipeIngredients(ctx context.Context, recipeID int64) ([]RecipeIngredient, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ri.id, ri.recipe_id, ri.unit_id, COALESCE(u.name, ''), ri.ingredient_ref_id, r.name, ri.quantity
		 FROM recipe_ingredients ri
		 LEFT JOIN units u ON u.id = ri.unit_id
		 JOIN ingredient_refs r ON r.id = ri.ingredient_ref_id
		 WHERE ri.recipe_id = ?
		 ORDER BY ri.id ASC`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer rows.Close()

	var out []RecipeIngredient
	for rows.Next() {
		var ri RecipeIngredient
		var unitID sql.NullInt64
		var qty sql.NullFloat64
		if err := rows.Scan(&ri.ID, &ri.RecipeID, &unitID, &ri.UnitName, &ri.IngredientRefID, &ri.IngredientName, &qty); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		if unitID.Valid {
			ri.UnitID = &unitID.Int64
		}
		if qty.Valid {
			ri.Quantity = &qty.Float64
		}
		out = append(out, ri)
	}
	return out, rows.Err()
}
