package memhistory

import (
	"context"
	"fmt"
	"testing"

	"github.com/visualdoc/ragservice/history"
)

func TestRepository_AppendFillsGeneratedFields(t *testing.T) {
	r := New(0)
	ctx := context.Background()

	if err := r.Append(ctx, history.Exchange{Question: "q", Answer: "a"}); err != nil {
		t.Fatal(err)
	}

	got, err := r.List(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].ID == "" {
		t.Error("id not generated")
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestRepository_ListMostRecentFirst(t *testing.T) {
	r := New(0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := r.Append(ctx, history.Exchange{Question: fmt.Sprintf("q%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := r.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Question != "q2" || got[1].Question != "q1" {
		t.Errorf("order = %s, %s", got[0].Question, got[1].Question)
	}
}

func TestRepository_BoundsOldestOut(t *testing.T) {
	r := New(2)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := r.Append(ctx, history.Exchange{Question: fmt.Sprintf("q%d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	count, err := r.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	got, _ := r.List(ctx, 0)
	for _, ex := range got {
		if ex.Question == "q0" {
			t.Error("oldest exchange not evicted")
		}
	}
}

func TestRepository_Clear(t *testing.T) {
	r := New(0)
	ctx := context.Background()

	if err := r.Append(ctx, history.Exchange{Question: "q"}); err != nil {
		t.Fatal(err)
	}
	if err := r.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	count, _ := r.Count(ctx)
	if count != 0 {
		t.Errorf("count after clear = %d", count)
	}
}
