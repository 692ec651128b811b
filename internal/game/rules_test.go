package game

import (
	"sync"
	"testing"
)

func TestStyleByID(t *testing.T) {
	r := &Rules{Styles: []AttackStyle{
		{ID: 1, Name: "Measured"},
		{ID: 2, Name: "Feinting", Feint: true},
	}}
	if st := r.StyleByID(2); st == nil || st.Name != "Feinting" {
		t.Fatalf("expected style 2, got %+v", st)
	}
	if st := r.StyleByID(99); st != nil {
		t.Fatalf("unknown id must return nil, got %+v", st)
	}
}

// A shared *Rules is hit by every request goroutine plus the event hub;
// concurrent first lookups must not race on the lazily built map.
func TestStyleByID_ConcurrentFirstUse(t *testing.T) {
	r := &Rules{Styles: []AttackStyle{
		{ID: 1, Name: "Measured"},
		{ID: 2, Name: "Feinting", Feint: true},
	}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if st := r.StyleByID(1); st == nil || st.ID != 1 {
					t.Errorf("lookup failed under concurrency: %+v", st)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCritPush_RoundsHalfUp(t *testing.T) {
	r := &Rules{PushWeights: PushWeights{Miss: 4, Hit: 10}, CritMultiplier: 1.5}
	if got := r.CritPush(); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	r.CritMultiplier = 1.25
	if got := r.CritPush(); got != 13 {
		t.Fatalf("12.5 must round up to 13, got %d", got)
	}
}

func TestPushFor(t *testing.T) {
	r := &Rules{PushWeights: PushWeights{Miss: 4, Hit: 10}, CritMultiplier: 1.5}
	if got := r.PushFor(OutcomeCritical); got != 15 {
		t.Fatalf("expected 15, got %d", got)
	}
	if got := r.PushFor(OutcomeHit); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	if got := r.PushFor(OutcomeMiss); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}
