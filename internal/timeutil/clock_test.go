package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := clock.Now().Add(-time.Second)
	if d := clock.Since(past); d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestRealClock_NewTicker(t *testing.T) {
	ticker := RealClock{}.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	select {
	case <-ticker.C():
	case <-time.After(time.Second):
		t.Error("ticker did not fire")
	}
}

func TestMockClock_SetAndSince(t *testing.T) {
	start := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(start)
	if !clock.Now().Equal(start) {
		t.Errorf("Now() = %v, want %v", clock.Now(), start)
	}

	clock.Advance(1500 * time.Millisecond)
	if got := clock.Since(start); got != 1500*time.Millisecond {
		t.Errorf("Since() = %v, want 1.5s", got)
	}

	later := start.Add(time.Hour)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("after Set, Now() = %v, want %v", clock.Now(), later)
	}
}

func TestMockClock_TickerFiresWhenDue(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	ticker := clock.NewTicker(16 * time.Millisecond)

	clock.Advance(10 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired too early")
	default:
	}

	clock.Advance(6 * time.Millisecond)
	select {
	case got := <-ticker.C():
		if !got.Equal(clock.Now()) {
			t.Errorf("tick time = %v, want %v", got, clock.Now())
		}
	default:
		t.Fatal("ticker did not fire at its interval")
	}
	if clock.Tickers() != 1 {
		t.Errorf("Tickers() = %d, want 1", clock.Tickers())
	}
}

func TestMockClock_TickerDropsUnreadTicks(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Second)

	clock.Advance(time.Second)
	clock.Advance(time.Second)

	<-ticker.C()
	select {
	case <-ticker.C():
		t.Error("second tick should have been dropped")
	default:
	}
}

func TestMockTicker_StopAndReset(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Second).(*MockTicker)
	ticker.Stop()
	clock.Advance(5 * time.Second)

	select {
	case <-ticker.C():
		t.Fatal("stopped ticker should not tick")
	default:
	}

	ticker.Reset(time.Minute)
	if ticker.stopped {
		t.Error("Reset should clear stopped")
	}
	if ticker.interval != time.Minute {
		t.Errorf("interval = %v, want 1m", ticker.interval)
	}
	clock.Advance(time.Minute)
	select {
	case <-ticker.C():
	default:
		t.Error("reset ticker did not fire")
	}
}

func TestMockTicker_Trigger(t *testing.T) {
	clock := NewMockClock(time.Now())
	ticker := clock.NewTicker(time.Hour).(*MockTicker)
	now := clock.Now()
	ticker.Trigger(now)

	select {
	case received := <-ticker.C():
		if !received.Equal(now) {
			t.Errorf("got %v, want %v", received, now)
		}
	default:
		t.Error("Trigger did not send tick")
	}
}
