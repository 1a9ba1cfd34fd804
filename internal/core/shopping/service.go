package shopping

import (
	"context"
	"database/sql"
	"math"
	"sort"
	"strconv"
	"time"

	"shopping-list-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 購物清單調和引擎
// 對每一筆進入的品項決定「合併進既有列」或「插入新列」，並維持顯示順序
type Service struct {
	store *Store
}

// NewService 創建調和服務
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// MergeOrInsert 對單一清單調和一筆來源
// 識別解析（單位/食材 find-or-create）、upsert 與重排在同一交易內，失敗時不留下部分寫入
func (s *Service) MergeOrInsert(ctx context.Context, listID int64, incoming Incoming) (*Item, error) {
	var out *Item
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		item, err := s.mergeOrInsertTx(ctx, tx, listID, incoming)
		if err != nil {
			return err
		}
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) mergeOrInsertTx(ctx context.Context, tx *sql.Tx, listID int64, incoming Incoming) (*Item, error) {
	// 識別解析先於調和：名稱一律小寫，"Lbs" 與 "lbs" 視為同一單位
	unit, err := s.store.FindOrCreateUnit(ctx, tx, incoming.UnitName)
	if err != nil {
		return nil, err
	}
	ref, err := s.store.FindOrCreateIngredientRef(ctx, tx, incoming.IngredientName)
	if err != nil {
		return nil, err
	}

	var unitID *int64
	if unit != nil {
		unitID = &unit.ID
	}

	// 呈現提示在任何寫入之前解析，解析不出結果就不會寫出半成品列
	affordance := ResolveAffordance(ref.Name, incoming.SubmittedCategoryKey, incoming.SubmittedIconKey)

	existing, err := s.store.FindItemByIdentity(ctx, tx, listID, unitID, ref.ID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		// 有量才累加；沒有量的一筆提及不得抹掉先前已知的數量
		newQuantity := existing.Quantity
		if incoming.Quantity != nil {
			base := 0.0
			if existing.Quantity != nil {
				base = *existing.Quantity
			}
			sum := base + *incoming.Quantity
			newQuantity = &sum
		}

		// 既有分類優先於推斷不出結果的來源
		categoryKey := affordance.CategoryKey
		iconKey := affordance.IconKey
		if categoryKey == "" || (categoryKey == "other" && existing.CategoryKey != "") {
			categoryKey = existing.CategoryKey
			iconKey = existing.IconKey
		}

		if err := s.store.MergeItem(ctx, tx, existing.ID, newQuantity, categoryKey, iconKey, incoming.UncheckOnMerge); err != nil {
			return nil, err
		}

		if err := s.reorderTx(ctx, tx, listID); err != nil {
			return nil, err
		}

		common.LogInfo("品項已合併",
			zap.Int64("list_id", listID),
			zap.Int64("item_id", existing.ID),
			zap.String("ingredient", ref.Name),
		)
		return s.store.GetItem(ctx, tx, existing.ID)
	}

	// 新品項排在目前清單尾端
	maxIdx, err := s.store.MaxActiveSortIndex(ctx, tx, listID)
	if err != nil {
		return nil, err
	}

	item := &Item{
		ListID:          listID,
		UnitID:          unitID,
		IngredientRefID: ref.ID,
		Quantity:        incoming.Quantity,
		SortIndex:       maxIdx + 1,
		CategoryKey:     affordance.CategoryKey,
		IconKey:         affordance.IconKey,
	}
	created, err := s.store.InsertItem(ctx, tx, item)
	if err != nil {
		return nil, err
	}

	common.LogInfo("品項已新增",
		zap.Int64("list_id", listID),
		zap.Int64("item_id", created.ID),
		zap.String("ingredient", ref.Name),
	)
	return created, nil
}

// AddFromRecipe 將食譜的食材匯入清單，數量乘以倍率
// 非正數或非有限的倍率視為 1；合併進既有品項時取消勾選（重新匯入代表使用者要買回來）
func (s *Service) AddFromRecipe(ctx context.Context, listID, recipeID int64, scaleFactor float64) ([]Item, error) {
	if scaleFactor <= 0 || math.IsNaN(scaleFactor) || math.IsInf(scaleFactor, 0) {
		scaleFactor = 1
	}

	ingredients, err := s.store.RecipeIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	var items []Item
	err = s.store.WithTx(ctx, func(tx *sql.Tx) error {
		for _, ri := range ingredients {
			var qty *float64
			if ri.Quantity != nil {
				scaled := *ri.Quantity * scaleFactor
				qty = &scaled
			}
			item, err := s.mergeOrInsertTx(ctx, tx, listID, Incoming{
				UnitName:       ri.UnitName,
				IngredientName: ri.IngredientName,
				Quantity:       qty,
				UncheckOnMerge: true,
			})
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		return s.reorderTx(ctx, tx, listID)
	})
	if err != nil {
		return nil, err
	}

	common.LogInfo("食譜已匯入清單",
		zap.Int64("list_id", listID),
		zap.Int64("recipe_id", recipeID),
		zap.Float64("scale_factor", scaleFactor),
		zap.Int("ingredients", len(ingredients)),
	)
	return items, nil
}

// ToggleCheck 切換勾選狀態；explicit 非 nil 時強制設為指定狀態，之後觸發重排
func (s *Service) ToggleCheck(ctx context.Context, itemID int64, explicit *bool) (*Item, error) {
	var out *Item
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		item, err := s.store.GetItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.DeletedAt != nil {
			return common.ErrItemNotFound
		}

		next := item.CheckedAt == nil
		if explicit != nil {
			next = *explicit
		}

		var checkedAt *time.Time
		if next {
			now := time.Now().UTC()
			checkedAt = &now
		}
		if err := s.store.SetChecked(ctx, tx, itemID, checkedAt); err != nil {
			return err
		}

		if err := s.reorderTx(ctx, tx, item.ListID); err != nil {
			return err
		}

		out, err = s.store.GetItem(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SoftRemove 軟刪除單一品項並重排
func (s *Service) SoftRemove(ctx context.Context, itemID int64) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		item, err := s.store.GetItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item == nil || item.DeletedAt != nil {
			return common.ErrItemNotFound
		}
		if err := s.store.SoftDelete(ctx, tx, itemID); err != nil {
			return err
		}
		return s.reorderTx(ctx, tx, item.ListID)
	})
}

// ClearCompleted 軟刪除所有已勾選品項，之後重排
func (s *Service) ClearCompleted(ctx context.Context, listID int64) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.store.SoftDeleteCompleted(ctx, tx, listID); err != nil {
			return err
		}
		return s.reorderTx(ctx, tx, listID)
	})
}

// ClearAll 軟刪除整份清單的品項；清單即將清空，不需要重排
func (s *Service) ClearAll(ctx context.Context, listID int64) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.store.SoftDeleteAll(ctx, tx, listID)
	})
}

// Reorder 重新計算清單的顯示順序
func (s *Service) Reorder(ctx context.Context, listID int64) error {
	return s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.reorderTx(ctx, tx, listID)
	})
}

// reorderTx 對未刪除品項指派密集索引 0..N-1
// 排序鍵：未勾選在前，其次原 sort_index、updated_at、id；重複執行結果不變
func (s *Service) reorderTx(ctx context.Context, tx *sql.Tx, listID int64) error {
	items, err := s.store.ActiveItems(ctx, tx, listID)
	if err != nil {
		return err
	}

	sort.Slice(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		if (ia.CheckedAt == nil) != (ib.CheckedAt == nil) {
			return ia.CheckedAt == nil
		}
		if ia.SortIndex != ib.SortIndex {
			return ia.SortIndex < ib.SortIndex
		}
		if !ia.UpdatedAt.Equal(ib.UpdatedAt) {
			return ia.UpdatedAt.Before(ib.UpdatedAt)
		}
		return ia.ID < ib.ID
	})

	for idx, item := range items {
		if err := s.store.UpdateSortIndex(ctx, tx, item.ID, idx, item.CheckedAt != nil); err != nil {
			return err
		}
	}
	return nil
}

// ListItems 取得清單的顯示內容
func (s *Service) ListItems(ctx context.Context, listID int64) ([]Item, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, common.ErrListNotFound
	}
	items, err := s.store.ActiveItems(ctx, s.store.db, listID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// ParseQuantity 將草稿的數量字串轉為可為空的數值
func ParseQuantity(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, common.NewValidationError("quantity", "quantity must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil, common.NewValidationError("quantity", "quantity must be a non-negative finite number")
	}
	return &f, nil
}
