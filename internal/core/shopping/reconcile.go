package shopping

// Overrides 客戶端的樂觀覆寫狀態，以品項 id 為鍵
// 伺服器回應尚未抵達前，畫面先假定操作成功
type Overrides struct {
	Checked map[int64]bool `json:"checked"` // id → 假定的勾選狀態
	Removed map[int64]bool `json:"removed"` // id → 已假定移除
}

// DisplayItem 套用覆寫後的顯示列
type DisplayItem struct {
	Item
	Optimistic bool `json:"optimistic"` // true 表示此列狀態來自尚未確認的本地覆寫
}

// ReconcileDisplay 以伺服器清單為準套用本地覆寫，產生顯示清單
// 覆寫鍵與目前存活的品項 id 取交集：已不存在的品項其覆寫直接丟棄，
// 回傳的 Overrides 為清理後的版本，呼叫端應以它取代手上的舊狀態
func ReconcileDisplay(serverItems []Item, overrides Overrides) ([]DisplayItem, Overrides) {
	active := make(map[int64]struct{}, len(serverItems))
	for _, item := range serverItems {
		active[item.ID] = struct{}{}
	}

	cleaned := Overrides{
		Checked: make(map[int64]bool),
		Removed: make(map[int64]bool),
	}
	for id, v := range overrides.Checked {
		if _, ok := active[id]; ok {
			cleaned.Checked[id] = v
		}
	}
	for id, v := range overrides.Removed {
		if _, ok := active[id]; ok && v {
			cleaned.Removed[id] = true
		}
	}

	display := make([]DisplayItem, 0, len(serverItems))
	for _, item := range serverItems {
		if cleaned.Removed[item.ID] {
			continue
		}
		d := DisplayItem{Item: item}
		if v, ok := cleaned.Checked[item.ID]; ok && v != item.Checked {
			d.Checked = v
			d.Optimistic = true
		}
		display = append(display, d)
	}
	return display, cleaned
}
