package rules

import (
	"errors"
	"testing"
)

func TestRoundTrackerLifecycle(t *testing.T) {
	rt := NewRoundTracker([]string{" Alice", "Bob "})

	if rt.Phase() != PhaseSetup {
		t.Fatalf("expected SETUP, got %s", rt.Phase())
	}
	if err := rt.BeginRound(0); err != nil {
		t.Fatalf("begin round: %v", err)
	}
	if rt.Round() != 1 || rt.Phase() != PhaseDrafting {
		t.Fatalf("expected round 1 drafting, got round %d %s", rt.Round(), rt.Phase())
	}
	if rt.CurrentPlayer() != "Alice" {
		t.Fatalf("expected Alice to start, got %q", rt.CurrentPlayer())
	}

	if err := rt.BeginLiquidation(); err != nil {
		t.Fatalf("begin liquidation: %v", err)
	}
	if err := rt.BeginRound(1); err != nil {
		t.Fatalf("second round: %v", err)
	}
	if rt.Round() != 2 || rt.CurrentPlayer() != "Bob" {
		t.Fatalf("expected round 2 started by Bob, got round %d %q", rt.Round(), rt.CurrentPlayer())
	}

	if err := rt.BeginLiquidation(); err != nil {
		t.Fatalf("begin liquidation: %v", err)
	}
	if err := rt.End(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if !rt.Ended() {
		t.Fatal("expected tracker to be ended")
	}
}

func TestRoundTrackerRejectsIllegalTransitions(t *testing.T) {
	rt := NewRoundTracker([]string{"Alice", "Bob"})

	if err := rt.End(); !errors.Is(err, ErrPhaseTransition) {
		t.Fatalf("expected ErrPhaseTransition ending from setup, got %v", err)
	}
	if err := rt.BeginLiquidation(); !errors.Is(err, ErrPhaseTransition) {
		t.Fatalf("expected ErrPhaseTransition liquidating from setup, got %v", err)
	}
	if rt.Phase() != PhaseSetup {
		t.Fatalf("failed transition must not change phase, got %s", rt.Phase())
	}

	_ = rt.BeginRound(0)
	if err := rt.BeginRound(0); !errors.Is(err, ErrPhaseTransition) {
		t.Fatalf("expected ErrPhaseTransition for double round start, got %v", err)
	}
	if rt.Round() != 1 {
		t.Fatalf("round must not advance on a rejected transition, got %d", rt.Round())
	}
}

func TestRoundTrackerAdvanceTurnWraps(t *testing.T) {
	rt := NewRoundTracker([]string{"Alice", "Bob", "Carol"})
	_ = rt.BeginRound(2)

	order := []string{"Alice", "Bob", "Carol", "Alice"}
	for i, want := range order {
		rt.AdvanceTurn()
		if rt.CurrentPlayer() != want {
			t.Fatalf("turn %d: expected %s, got %s", i, want, rt.CurrentPlayer())
		}
	}
	if rt.Turn() != len(order) {
		t.Fatalf("expected %d turns, got %d", len(order), rt.Turn())
	}
}

func TestRoundTrackerClampsStarter(t *testing.T) {
	rt := NewRoundTracker([]string{"Alice", "Bob"})
	_ = rt.BeginRound(7)
	if rt.Current() != 0 {
		t.Fatalf("out-of-range starter should fall back to seat 0, got %d", rt.Current())
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseLiquidating.String() != "LIQUIDATING" {
		t.Fatalf("unexpected name %s", PhaseLiquidating)
	}
	if Phase(42).String() != "PHASE_42" {
		t.Fatalf("unexpected fallback %s", Phase(42))
	}
}
