package history

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRunner struct {
	mu      sync.Mutex
	logs    map[string]string // path suffix -> output
	calls   map[string]int
	active  int32
	maxSeen int32
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		seen := atomic.LoadInt32(&f.maxSeen)
		if n <= seen || atomic.CompareAndSwapInt32(&f.maxSeen, seen, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	path := args[len(args)-1]
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[path]++
	for suffix, out := range f.logs {
		if strings.HasSuffix(path, suffix) {
			return out, nil
		}
	}
	return "", errors.New("fatal: no such path")
}

var fixedNow = time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)

func TestParseLog_NewestAndOldest(t *testing.T) {
	out := "2024-03-05T10:00:00+01:00\n2024-02-01T09:00:00Z\n2023-12-24T18:30:00-05:00\n"
	ts, err := parseLog(out)
	if err != nil {
		t.Fatalf("parseLog: %v", err)
	}
	if ts.UpdatedAt != "2024-03-05T09:00:00Z" {
		t.Errorf("UpdatedAt = %q", ts.UpdatedAt)
	}
	if ts.CreatedAt != "2023-12-24T23:30:00Z" {
		t.Errorf("CreatedAt = %q", ts.CreatedAt)
	}
}

func TestParseLog_SingleRevision(t *testing.T) {
	ts, err := parseLog("2024-01-01T00:00:00Z\n")
	if err != nil {
		t.Fatal(err)
	}
	if ts.CreatedAt != ts.UpdatedAt {
		t.Errorf("single revision should give equal timestamps: %+v", ts)
	}
}

func TestParseLog_Empty(t *testing.T) {
	if _, err := parseLog("\n"); err == nil {
		t.Error("expected error for empty log")
	}
}

func TestParseLog_Garbage(t *testing.T) {
	if _, err := parseLog("yesterday\n"); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestResolve_FallsBackToNow(t *testing.T) {
	runner := &fakeRunner{logs: map[string]string{
		"photo_packs/nature.json": "2024-02-01T00:00:00Z\n2024-01-01T00:00:00Z\n",
	}}
	g := NewGitResolver(".", WithRunner(runner), WithNowFunc(func() time.Time { return fixedNow }))

	got := g.Resolve(context.Background(), []string{"data/photo_packs/nature.json", "data/photo_packs/new.json"})

	nature := got["data/photo_packs/nature.json"]
	if nature.Fallback || nature.CreatedAt != "2024-01-01T00:00:00Z" || nature.UpdatedAt != "2024-02-01T00:00:00Z" {
		t.Errorf("nature = %+v", nature)
	}
	fresh := got["data/photo_packs/new.json"]
	if !fresh.Fallback || fresh.CreatedAt != "2025-06-01T08:30:00Z" || fresh.UpdatedAt != fresh.CreatedAt {
		t.Errorf("new = %+v", fresh)
	}
}

func TestResolve_BoundedConcurrency(t *testing.T) {
	runner := &fakeRunner{logs: map[string]string{".json": "2024-01-01T00:00:00Z\n"}}
	g := NewGitResolver(".", WithRunner(runner), WithConcurrency(3))

	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, "p"+string(rune('a'+i))+".json")
	}
	got := g.Resolve(context.Background(), paths)
	if len(got) != 20 {
		t.Fatalf("resolved %d paths, want 20", len(got))
	}
	if runner.maxSeen > 3 {
		t.Errorf("max concurrent git calls = %d, want <= 3", runner.maxSeen)
	}
	for p, n := range runner.calls {
		if n != 1 {
			t.Errorf("%s fetched %d times, want 1", p, n)
		}
	}
}

func TestStatic(t *testing.T) {
	got := Static{Now: func() time.Time { return fixedNow }}.Resolve(context.Background(), []string{"a", "b"})
	if len(got) != 2 || got["a"].CreatedAt != "2025-06-01T08:30:00Z" || !got["b"].Fallback {
		t.Errorf("Static = %+v", got)
	}
}

func TestLogArgs(t *testing.T) {
	args := strings.Join(logArgs("x.json"), " ")
	if args != "log --follow --format=%aI -- x.json" {
		t.Errorf("logArgs = %q", args)
	}
}
