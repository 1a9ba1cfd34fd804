package shopping

// SwipeAction 水平滑動手勢解析出的意圖
type SwipeAction string

const (
	SwipeActionNone          SwipeAction = "none"
	SwipeActionReveal        SwipeAction = "reveal"        // 左滑到位，露出刪除鈕
	SwipeActionConfirmDelete SwipeAction = "confirmDelete" // 已露出狀態下再左滑，確認刪除
	SwipeActionDismiss       SwipeAction = "dismiss"       // 已露出狀態下右滑，收回
)

// 手勢門檻為固定常數（單位：px）
const (
	swipeRevealThreshold  = -56.0
	swipeDismissThreshold = 28.0
)

// ResolveSwipeAction 由 (位移, 是否已露出) 解析滑動意圖
// 無狀態純函數：confirmDelete 與 reveal 門檻相同，但只能從已露出狀態到達，
// 所以手勢是漸進的——第一段滑動露出，繼續滑才確認
func ResolveSwipeAction(offset float64, revealed bool) SwipeAction {
	if revealed {
		if offset <= swipeRevealThreshold {
			return SwipeActionConfirmDelete
		}
		if offset >= swipeDismissThreshold {
			return SwipeActionDismiss
		}
		return SwipeActionNone
	}
	if offset <= swipeRevealThreshold {
		return SwipeActionReveal
	}
	return SwipeActionNone
}

// SwipePhase 品項的滑動狀態
type SwipePhase int

const (
	SwipeIdle SwipePhase = iota
	SwipeRevealed
	SwipeDeleted // 終態，品項已自畫面移除
)

// SwipeState 每個品項一份的滑動狀態機
type SwipeState struct {
	phase SwipePhase
}

// Phase 目前狀態
func (s *SwipeState) Phase() SwipePhase {
	return s.phase
}

// Apply 套用一次手勢，回傳解析出的意圖
func (s *SwipeState) Apply(offset float64) SwipeAction {
	if s.phase == SwipeDeleted {
		return SwipeActionNone
	}

	action := ResolveSwipeAction(offset, s.phase == SwipeRevealed)
	switch action {
	case SwipeActionReveal:
		s.phase = SwipeRevealed
	case SwipeActionConfirmDelete:
		s.phase = SwipeDeleted
	case SwipeActionDismiss:
		s.phase = SwipeIdle
	}
	return action
}

// Reset 清單內容變動時呼叫：滑動提示是位置性的，順序一變就全部收回
func (s *SwipeState) Reset() {
	if s.phase != SwipeDeleted {
		s.phase = SwipeIdle
	}
}
