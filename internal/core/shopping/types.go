package shopping

import "time"

// ShoppingList 購物清單
type ShoppingList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Unit 量詞單位（名稱一律小寫儲存）
type Unit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IngredientRef 食材參照（名稱一律小寫儲存）
type IngredientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Item 購物清單品項
// 識別鍵為 (ListID, UnitID-or-null, IngredientRefID)，同一清單內同識別鍵至多一列
type Item struct {
	ID              int64      `json:"id"`
	ListID          int64      `json:"list_id"`
	UnitID          *int64     `json:"unit_id"`
	UnitName        string     `json:"unit_name"`
	IngredientRefID int64      `json:"ingredient_ref_id"`
	IngredientName  string     `json:"ingredient_name"`
	Quantity        *float64   `json:"quantity"` // nil 表示「沒有量，只是一個勾選項」，與 0 不同
	Checked         bool       `json:"checked"`
	CheckedAt       *time.Time `json:"checked_at"`
	SortIndex       int        `json:"sort_index"`
	CategoryKey     string     `json:"category_key"`
	IconKey         string     `json:"icon_key"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Incoming 一筆待調和的品項來源（手動輸入、解析結果或食譜匯入）
type Incoming struct {
	UnitName             string   // 空字串表示無單位
	IngredientName       string   // 必填
	Quantity             *float64 // nil 表示未提供數量
	SubmittedCategoryKey string   // 編輯時帶回的既有分類鍵，優先於名稱推斷
	SubmittedIconKey     string
	UncheckOnMerge       bool // 食譜匯入路徑：合併進既有品項時取消勾選
}

// Recipe 食譜（最小讀取模型，只為供應食材匯入）
type Recipe struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RecipeIngredient 食譜食材項
type RecipeIngredient struct {
	ID              int64    `json:"id"`
	RecipeID        int64    `json:"recipe_id"`
	UnitID          *int64   `json:"unit_id"`
	UnitName        string   `json:"unit_name"`
	IngredientRefID int64    `json:"ingredient_ref_id"`
	IngredientName  string   `json:"ingredient_name"`
	Quantity        *float64 `json:"quantity"`
}
