package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/Tafitantsu/Transport-cost/pkg/task"
)

func TestCreateTaskFromFile(t *testing.T) {
	isolate(t)
	path := writeProblem(t)
	c := testCLI()

	svc, err := c.newService(serviceOpts{tasks: true})
	if err != nil {
		t.Fatalf("newService: %v", err)
	}
	defer svc.Store.Close()

	created, err := createTask(context.Background(), svc, path, "", "penalty")
	if err != nil {
		t.Fatalf("createTask: %v", err)
	}
	if created.Name != "Depots" {
		t.Errorf("Name = %q, want name from the file", created.Name)
	}
	if created.TotalCost == nil || *created.TotalCost != 330 {
		t.Errorf("TotalCost = %v, want 330", created.TotalCost)
	}

	if _, ok := svc.Store.(*task.FileStore); !ok {
		t.Errorf("task commands should use the file store, got %T", svc.Store)
	}
}

func TestTaskCommands(t *testing.T) {
	isolate(t)
	path := writeProblem(t)
	c := testCLI()

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := c.RootCommand()
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(args)
		if err := root.ExecuteContext(context.Background()); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("task", "create", path, "--name", "Tana", "-m", "cno")
	run("task", "create", path, "--name", "Toamasina")

	var list []task.Summary
	if err := json.Unmarshal([]byte(run("task", "list", "--json")), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d tasks, want 2", len(list))
	}

	id := list[0].ID
	run("task", "optimize", id)

	var got task.Task
	if err := json.Unmarshal([]byte(run("task", "show", id, "--json")), &got); err != nil {
		t.Fatalf("decode task: %v", err)
	}
	if !got.IsOptimized || got.TotalCost == nil || *got.TotalCost != 330 {
		t.Errorf("after optimize: optimized=%v cost=%v", got.IsOptimized, got.TotalCost)
	}

	var recent []task.Summary
	if err := json.Unmarshal([]byte(run("task", "recent", "-n", "1", "--json")), &recent); err != nil {
		t.Fatalf("decode recent: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != id {
		t.Errorf("recent = %+v, want the optimized task first", recent)
	}

	run("task", "delete", id)
	if err := json.Unmarshal([]byte(run("task", "list", "--json")), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("got %d tasks after delete, want 1", len(list))
	}
}

func TestTaskUpdateNeedsAFlag(t *testing.T) {
	isolate(t)
	root := testCLI().RootCommand()
	root.SetArgs([]string{"task", "update", "some-id"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("update without flags should fail")
	}
}
