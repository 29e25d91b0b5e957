package guard

import (
	"sync"
	"testing"
	"time"
)

func newTestGuard(rate, dedup time.Duration) (*Guard, *time.Time) {
	g := New(rate, dedup)
	now := time.Unix(1_700_000_000, 0)
	g.now = func() time.Time { return now }
	return g, &now
}

func TestCheckRateWindow(t *testing.T) {
	g, now := newTestGuard(6*time.Second, 0)

	if wait, ok := g.CheckRate(1); !ok || wait != 0 {
		t.Fatalf("first call should pass, got wait=%d ok=%v", wait, ok)
	}
	if _, ok := g.CheckRate(1); ok {
		t.Fatal("immediate second call should be limited")
	}

	*now = now.Add(3 * time.Second)
	wait, ok := g.CheckRate(1)
	if ok {
		t.Fatal("call inside window should be limited")
	}
	if wait != 3 {
		t.Fatalf("wait = %d, want 3", wait)
	}

	// A blocked attempt must not restart the window.
	*now = now.Add(3 * time.Second)
	if wait, ok := g.CheckRate(1); !ok || wait != 0 {
		t.Fatalf("call after window should pass, got wait=%d ok=%v", wait, ok)
	}
}

func TestCheckRatePerUser(t *testing.T) {
	g, _ := newTestGuard(6*time.Second, 0)

	if _, ok := g.CheckRate(1); !ok {
		t.Fatal("user 1 first call should pass")
	}
	if _, ok := g.CheckRate(2); !ok {
		t.Fatal("user 2 must not share user 1's window")
	}
}

func TestCheckRateWaitRoundsUp(t *testing.T) {
	g, now := newTestGuard(6*time.Second, 0)

	g.CheckRate(1)
	*now = now.Add(5*time.Second + 500*time.Millisecond)
	wait, ok := g.CheckRate(1)
	if ok {
		t.Fatal("500ms short of the window should still be limited")
	}
	if wait != 1 {
		t.Fatalf("wait = %d, want 1", wait)
	}
}

func TestCheckDuplicate(t *testing.T) {
	g, now := newTestGuard(0, 5*time.Second)

	if !g.CheckDuplicate("7:628123456789") {
		t.Fatal("first request should pass")
	}
	if g.CheckDuplicate("7:628123456789") {
		t.Fatal("immediate duplicate should be dropped")
	}
	if !g.CheckDuplicate("7:628999999999") {
		t.Fatal("different key must not be debounced")
	}

	*now = now.Add(6 * time.Second)
	if !g.CheckDuplicate("7:628123456789") {
		t.Fatal("request after the window should pass")
	}
}

func TestAcquireRelease(t *testing.T) {
	g, _ := newTestGuard(0, 0)

	release, ok := g.Acquire("7:628123456789")
	if !ok {
		t.Fatal("first acquire should succeed")
	}
	if _, ok := g.Acquire("7:628123456789"); ok {
		t.Fatal("second acquire while held should fail")
	}
	if _, ok := g.Acquire("8:628123456789"); !ok {
		t.Fatal("different key should not be blocked")
	}

	release()
	release() // second call is a no-op

	if _, ok := g.Acquire("7:628123456789"); !ok {
		t.Fatal("acquire after release should succeed")
	}
}

func TestAcquireConcurrent(t *testing.T) {
	g, _ := newTestGuard(0, 0)

	const workers = 32
	var wg sync.WaitGroup
	wins := make(chan func(), workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if release, ok := g.Acquire("key"); ok {
				wins <- release
			}
		}()
	}
	wg.Wait()
	close(wins)

	var releases []func()
	for r := range wins {
		releases = append(releases, r)
	}
	if len(releases) != 1 {
		t.Fatalf("expected exactly one winner, got %d", len(releases))
	}
	releases[0]()
}

func TestDisabledWindows(t *testing.T) {
	g, _ := newTestGuard(0, 0)

	for i := 0; i < 3; i++ {
		if _, ok := g.CheckRate(1); !ok {
			t.Fatal("zero rate window must disable the check")
		}
		if !g.CheckDuplicate("k") {
			t.Fatal("zero dedup window must disable the check")
		}
	}
}
