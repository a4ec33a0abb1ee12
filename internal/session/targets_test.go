package session_test

import (
	"sync"
	"testing"

	"github.com/xodimov/relaybot/internal/session"
)

func TestTargetsLifecycle(t *testing.T) {
	t.Parallel()

	targets := session.NewTargets()

	if _, ok := targets.Get(1); ok {
		t.Error("expected no target initially")
	}

	targets.Set(1, 42)
	if got, ok := targets.Get(1); !ok || got != 42 {
		t.Errorf("Get(1) = %d, %v; want 42, true", got, ok)
	}

	// Setting again replaces the previous target.
	targets.Set(1, 99)
	if got, _ := targets.Get(1); got != 99 {
		t.Errorf("Get(1) after replace = %d, want 99", got)
	}

	targets.Clear(1)
	if _, ok := targets.Get(1); ok {
		t.Error("expected target cleared")
	}

	// Clearing an absent target is a no-op.
	targets.Clear(1)
}

func TestTargetsConcurrentAccess(t *testing.T) {
	t.Parallel()

	targets := session.NewTargets()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			targets.Set(n, n*2)
			targets.Get(n)
			targets.Clear(n)
		}(int64(i))
	}
	wg.Wait()
}
