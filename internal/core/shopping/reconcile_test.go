package shopping

import "testing"

func displayIDs(display []DisplayItem) []int64 {
	ids := make([]int64, len(display))
	for i, d := range display {
		ids[i] = d.ID
	}
	return ids
}

func TestReconcileDisplayDropsStaleOverrides(t *testing.T) {
	server := []Item{{ID: 1}, {ID: 2}}
	overrides := Overrides{
		Checked: map[int64]bool{1: true, 99: true},
		Removed: map[int64]bool{98: true},
	}

	display, cleaned := ReconcileDisplay(server, overrides)

	if len(display) != 2 {
		t.Fatalf("display length = %d, want 2", len(display))
	}
	if _, ok := cleaned.Checked[99]; ok {
		t.Error("stale checked override for id 99 should be dropped")
	}
	if _, ok := cleaned.Removed[98]; ok {
		t.Error("stale removed override for id 98 should be dropped")
	}
	if !cleaned.Checked[1] {
		t.Error("live checked override for id 1 should survive")
	}
}

func TestReconcileDisplayHidesRemovedItems(t *testing.T) {
	server := []Item{{ID: 1}, {ID: 2}, {ID: 3}}
	overrides := Overrides{Removed: map[int64]bool{2: true}}

	display, cleaned := ReconcileDisplay(server, overrides)

	ids := displayIDs(display)
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Errorf("display ids = %v, want [1 3]", ids)
	}
	if !cleaned.Removed[2] {
		t.Error("removed override for a live item should survive until server confirms")
	}
}

func TestReconcileDisplayOptimisticChecked(t *testing.T) {
	server := []Item{
		{ID: 1, Checked: false},
		{ID: 2, Checked: true},
	}
	overrides := Overrides{Checked: map[int64]bool{1: true, 2: true}}

	display, _ := ReconcileDisplay(server, overrides)

	if !display[0].Checked || !display[0].Optimistic {
		t.Errorf("item 1 should be optimistically checked, got checked=%v optimistic=%v", display[0].Checked, display[0].Optimistic)
	}
	// 覆寫與伺服器一致時不標記 optimistic
	if !display[1].Checked || display[1].Optimistic {
		t.Errorf("item 2 matches server state, got checked=%v optimistic=%v", display[1].Checked, display[1].Optimistic)
	}
}

func TestReconcileDisplayEmptyOverrides(t *testing.T) {
	server := []Item{{ID: 1, Checked: true}}

	display, cleaned := ReconcileDisplay(server, Overrides{})

	if len(display) != 1 {
		t.Fatalf("display length = %d, want 1", len(display))
	}
	if !display[0].Checked || display[0].Optimistic {
		t.Errorf("server state should pass through, got checked=%v optimistic=%v", display[0].Checked, display[0].Optimistic)
	}
	if cleaned.Checked == nil || cleaned.Removed == nil {
		t.Error("cleaned overrides maps should be initialized")
	}
}

func TestReconcileDisplayEmptyServerList(t *testing.T) {
	overrides := Overrides{
		Checked: map[int64]bool{1: true},
		Removed: map[int64]bool{2: true},
	}

	display, cleaned := ReconcileDisplay(nil, overrides)

	if len(display) != 0 {
		t.Errorf("display length = %d, want 0", len(display))
	}
	if len(cleaned.Checked) != 0 || len(cleaned.Removed) != 0 {
		t.Errorf("all overrides should be dropped, got %v %v", cleaned.Checked, cleaned.Removed)
	}
}
