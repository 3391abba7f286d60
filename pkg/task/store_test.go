package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Tafitantsu/Transport-cost/pkg/transport"
)

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func sampleTask(name string, created time.Time) *Task {
	return &Task{
		Name:      name,
		Supply:    []float64{20, 30},
		Demand:    []float64{20, 30},
		Costs:     [][]float64{{1, 2}, {3, 4}},
		Method:    "corner",
		CreatedAt: created,
	}
}

func sampleResult(t *testing.T) *Result {
	t.Helper()
	p, err := transport.NewProblem([]float64{20, 30}, []float64{20, 30}, [][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatal(err)
	}
	s, err := transport.NorthwestCorner(p)
	if err != nil {
		t.Fatal(err)
	}
	return NewResult(s)
}

func storeBackends(t *testing.T) map[string]Store {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func TestStoreCRUD(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			defer store.Close()

			tk := sampleTask("usine", base)
			tk.SetResult(sampleResult(t))
			tk.InitialResult = tk.Result
			if err := store.Create(ctx, tk); err != nil {
				t.Fatalf("Create: %v", err)
			}
			if tk.ID == "" {
				t.Fatal("Create did not assign an ID")
			}
			if err := store.Create(ctx, tk); !errors.Is(err, ErrExists) {
				t.Errorf("second Create = %v, want ErrExists", err)
			}

			got, err := store.Get(ctx, tk.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "usine" || got.Method != "corner" {
				t.Errorf("Get = %+v", got)
			}
			if got.TotalCost == nil || *got.TotalCost != 140 {
				t.Errorf("TotalCost = %v, want 140", got.TotalCost)
			}
			if got.Result == nil || got.Result.Allocation.EpsilonCount() != 1 {
				t.Errorf("stored allocation lost its epsilon cell: %v", got.Result)
			}
			if !got.CreatedAt.Equal(base) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base)
			}

			got.Name = "entrepot"
			got.Touch(base.Add(time.Hour))
			if err := store.Update(ctx, got); err != nil {
				t.Fatalf("Update: %v", err)
			}
			again, err := store.Get(ctx, tk.ID)
			if err != nil {
				t.Fatalf("Get after Update: %v", err)
			}
			if again.Name != "entrepot" || again.UpdatedAt == nil {
				t.Errorf("Update not persisted: %+v", again)
			}

			if err := store.Delete(ctx, tk.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := store.Get(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get after Delete = %v, want ErrNotFound", err)
			}
			if err := store.Delete(ctx, tk.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreMissing(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			got, err := store.Get(ctx, "does-not-exist")
			if got != nil || !errors.Is(err, ErrNotFound) {
				t.Errorf("Get = (%v, %v), want (nil, ErrNotFound)", got, err)
			}
			if err := store.Update(ctx, &Task{ID: "does-not-exist"}); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	tk := sampleTask("a", base)
	if err := store.Create(ctx, tk); err != nil {
		t.Fatal(err)
	}
	tk.Supply[0] = 999

	got, _ := store.Get(ctx, tk.ID)
	if got.Supply[0] != 20 {
		t.Errorf("store shares memory with caller: supply = %v", got.Supply)
	}
}

func TestStoreOrdering(t *testing.T) {
	for name, store := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ids := make([]string, 7)
			for i := range ids {
				tk := sampleTask(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
				if err := store.Create(ctx, tk); err != nil {
					t.Fatal(err)
				}
				ids[i] = tk.ID
			}

			// Editing the oldest task moves it to the front of Recent only.
			oldest, _ := store.Get(ctx, ids[0])
			oldest.Touch(base.Add(time.Hour))
			if err := store.Update(ctx, oldest); err != nil {
				t.Fatal(err)
			}

			list, err := store.List(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(list) != 7 {
				t.Fatalf("List returned %d tasks, want 7", len(list))
			}
			if list[0].ID != ids[6] || list[6].ID != ids[0] {
				t.Errorf("List order = %v..%v, want newest first", list[0].Name, list[6].Name)
			}

			rec, err := store.Recent(ctx, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(rec) != DefaultRecent {
				t.Fatalf("Recent(0) returned %d, want %d", len(rec), DefaultRecent)
			}
			want := []string{ids[0], ids[6], ids[5], ids[4], ids[3]}
			for i, id := range want {
				if rec[i].ID != id {
					t.Errorf("Recent[%d] = %s, want %s", i, rec[i].Name, id)
				}
			}

			rec, _ = store.Recent(ctx, 2)
			if len(rec) != 2 {
				t.Errorf("Recent(2) returned %d", len(rec))
			}
		})
	}
}

func TestFileStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Create(ctx, &Task{ID: "../escape"}); err == nil {
		t.Error("Create accepted a path-traversal ID")
	}
	if _, err := store.Get(ctx, "../escape"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get = %v, want ErrNotFound", err)
	}
}

func TestSummary(t *testing.T) {
	tk := sampleTask("a", base)
	if got := tk.Summary(); got.TotalCost != nil || got.UpdatedAt != nil {
		t.Errorf("Summary of fresh task = %+v", got)
	}
	if !tk.LastModified().Equal(base) {
		t.Errorf("LastModified = %v, want CreatedAt", tk.LastModified())
	}

	tk.SetResult(&Result{TotalCost: 12.5})
	tk.Touch(base.Add(time.Minute))
	s := tk.Summary()
	if s.TotalCost == nil || *s.TotalCost != 12.5 {
		t.Errorf("Summary.TotalCost = %v", s.TotalCost)
	}
	if !tk.LastModified().Equal(base.Add(time.Minute)) {
		t.Errorf("LastModified = %v", tk.LastModified())
	}

	tk.SetResult(nil)
	if tk.TotalCost != nil {
		t.Error("SetResult(nil) kept the cost")
	}
}
