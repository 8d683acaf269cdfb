package clock

import (
	"testing"
	"time"
)

func TestReal_Now(t *testing.T) {
	var c Clock = Real{}
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("Real clock went backwards: %v then %v", a, b)
	}
}

func TestFake_Advance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := NewFake(start)

	if !f.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", f.Now(), start)
	}

	f.Advance(50 * time.Millisecond)
	if got := f.Now().Sub(start); got != 50*time.Millisecond {
		t.Errorf("elapsed = %v, want 50ms", got)
	}

	later := start.Add(time.Hour)
	f.Set(later)
	if !f.Now().Equal(later) {
		t.Errorf("Now() after Set = %v, want %v", f.Now(), later)
	}
}
