package display

import (
	"strings"
	"testing"
	"time"
)

type fakeCounter struct {
	n      int
	gotNow time.Time
	gotWin time.Duration
}

func (f *fakeCounter) ExpiringWithin(now time.Time, window time.Duration) int {
	f.gotNow, f.gotWin = now, window
	return f.n
}

func TestStatusBar(t *testing.T) {
	fixed := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		count   int
		wantBar string
	}{
		{"nothing expiring", 0, ""},
		{"one batch", 1, "1 batch expiring within 3 days"},
		{"several", 4, "4 batches expiring within 3 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := &fakeCounter{n: tt.count}
			ui := NewUI(counter, 72*time.Hour)
			ui.now = func() time.Time { return fixed }

			next, _ := ui.newModel().Update(tickMsg(fixed))
			m := next.(model)

			if !counter.gotNow.Equal(fixed) || counter.gotWin != 72*time.Hour {
				t.Fatalf("counter called with %v, %v", counter.gotNow, counter.gotWin)
			}
			view := m.View()
			if tt.wantBar == "" {
				if strings.Contains(view, "expiring") {
					t.Fatalf("expected no status bar, got %q", view)
				}
				if m.titleStr() != "OttoPantry" {
					t.Fatalf("title = %q", m.titleStr())
				}
				return
			}
			if !strings.Contains(view, tt.wantBar) {
				t.Fatalf("view %q missing %q", view, tt.wantBar)
			}
			if !strings.Contains(view, promptText) {
				t.Fatalf("view %q missing prompt", view)
			}
		})
	}
}

func TestFmtWindow(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{24 * time.Hour, "1 day"},
		{72 * time.Hour, "3 days"},
		{6 * time.Hour, "6h"},
		{-time.Hour, "0h"},
	}
	for _, tt := range tests {
		if got := fmtWindow(tt.d); got != tt.want {
			t.Errorf("fmtWindow(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
