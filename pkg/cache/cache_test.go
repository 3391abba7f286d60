package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, err := c.Get(ctx, "solution:abc"); err != nil || hit {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "solution:abc", []byte(`{"cout_total":330}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "solution:abc")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit %v, err %v", hit, err)
	}
	if string(data) != `{"cout_total":330}` {
		t.Errorf("Get = %s", data)
	}

	if err := c.Delete(ctx, "solution:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "solution:abc"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "solution:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheLayout(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())

	tests := []struct {
		key, kind string
	}{
		{"solution:abc", "solution"},
		{"optimize:abc", "optimize"},
		{"prod:verify:abc", "prod"},
		{"plain", "misc"},
		{"../up:x", "misc"},
		{":x", "misc"},
	}
	for _, tt := range tests {
		got := filepath.Base(filepath.Dir(c.path(tt.key)))
		if got != tt.kind {
			t.Errorf("path(%q) is under %q, want %q", tt.key, got, tt.kind)
		}
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "verify:k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "verify:k"); !hit {
		t.Fatal("fresh entry missed")
	}

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "verify:k"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("verify:k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed from disk")
	}
}

func TestFileCacheRejectsForeignEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("solution:k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, body := range []string{"not json", `{"key":"solution:other","data":"dg=="}`} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "solution:k"); hit || err != nil {
			t.Errorf("%s: hit %v, err %v; want clean miss", body, hit, err)
		}
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	for i, kind := range []string{"solution", "solution", "optimize", "verify"} {
		if err := c.Set(ctx, fmt.Sprintf("%s:%d", kind, i), []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear("solution", "unknown")
	if err != nil || n != 2 {
		t.Fatalf("Clear(solution) = %d, %v; want 2", n, err)
	}
	if _, hit, _ := c.Get(ctx, "optimize:2"); !hit {
		t.Error("Clear(solution) removed an optimize entry")
	}

	n, err = c.Clear()
	if err != nil || n != 2 {
		t.Fatalf("Clear() = %d, %v; want 2", n, err)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d directories left after Clear", len(entries))
	}

	missing := &FileCache{dir: filepath.Join(t.TempDir(), "nope"), now: time.Now}
	if n, err := missing.Clear(); n != 0 || err != nil {
		t.Errorf("Clear on missing dir = %d, %v", n, err)
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisCacheFromClient(client)
	defer c.Close()

	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrNetwork) {
		t.Errorf("Get error = %v, want ErrNetwork", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set error = %v, want ErrNetwork", err)
	}
}

func TestHash(t *testing.T) {
	h := Hash([]byte("hello"))
	if h != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if h == Hash([]byte("world")) {
		t.Error("distinct inputs collide")
	}
	if len(h) != 64 || strings.Trim(h, "0123456789abcdef") != "" {
		t.Errorf("Hash = %q, want 64 lowercase hex digits", h)
	}
}

func TestProblemHash(t *testing.T) {
	costs := [][]float64{{2, 3}, {3, 2}}
	h1 := ProblemHash([]float64{10, 20}, []float64{15, 15}, costs)
	h2 := ProblemHash([]float64{10, 20}, []float64{15, 15}, [][]float64{{2, 3}, {3, 2}})
	if h1 != h2 {
		t.Error("equal problems should hash the same")
	}
	if h1 == ProblemHash([]float64{20, 10}, []float64{15, 15}, costs) {
		t.Error("reordered supply should change the hash")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if k.SolutionKey("h", "corner") == k.SolutionKey("h", "penalty") {
		t.Error("SolutionKey ignores the method")
	}
	if !strings.HasPrefix(k.SolutionKey("h", "corner"), "solution:") {
		t.Errorf("SolutionKey = %q", k.SolutionKey("h", "corner"))
	}
	if k.OptimizeKey("h", OptimizeKeyOpts{}) == k.OptimizeKey("h", OptimizeKeyOpts{MaxRounds: 5}) {
		t.Error("OptimizeKey ignores MaxRounds")
	}
	if got := k.VerifyKey("h"); got != "verify:h" {
		t.Errorf("VerifyKey = %q", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "prod:")

	if got := scoped.VerifyKey("abc"); got != "prod:verify:abc" {
		t.Errorf("VerifyKey = %q", got)
	}
	if got := scoped.SolutionKey("abc", "corner"); got != "prod:"+inner.SolutionKey("abc", "corner") {
		t.Errorf("SolutionKey = %q", got)
	}
	if got := NewScopedKeyer(nil, "p:").VerifyKey("k"); got != "p:verify:k" {
		t.Errorf("nil inner: VerifyKey = %q", got)
	}
}

func TestBackoff(t *testing.T) {
	ctx := context.Background()
	b := backoff{attempts: 3, delay: time.Millisecond}
	other := errors.New("bad password")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"recovers", 2, ErrNetwork, 3, nil},
		{"gives up", 5, ErrNetwork, 3, ErrNetwork},
		{"permanent", 5, other, 1, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.do(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return fmt.Errorf("wrapped: %w", tt.err)
				}
				return nil
			})
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestBackoffCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := backoff{attempts: 5, delay: time.Hour}.do(ctx, func() error {
		calls++
		return ErrNetwork
	})
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Errorf("err = %v after %d calls, want context.Canceled after 1", err, calls)
	}
}
