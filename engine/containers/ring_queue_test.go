package containers

import (
	"errors"
	"testing"
)

func TestRingQueueWrapsAround(t *testing.T) {
	rq := NewRingQueue[string](2)

	if _, err := rq.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}

	for _, v := range []string{"a", "b"} {
		if err := rq.Enqueue(v); err != nil {
			t.Fatalf("expected error to be nil, got %v", err)
		}
	}
	if err := rq.Enqueue("c"); !errors.Is(err, ErrQueueFull) {
		t.Errorf("expected ErrQueueFull, got %v", err)
	}

	if v, _ := rq.Dequeue(); v != "a" {
		t.Errorf("expected 'a', got '%s'", v)
	}
	if err := rq.Enqueue("c"); err != nil {
		t.Fatalf("expected error to be nil, got %v", err)
	}
	if !Contains(rq, "c") || Contains(rq, "a") {
		t.Errorf("expected queue to hold b and c only")
	}

	if v, _ := rq.Peek(); v != "b" {
		t.Errorf("expected 'b' at the front, got '%s'", v)
	}
	var got []string
	for !rq.IsEmpty() {
		v, _ := rq.Dequeue()
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("expected [b c], got %v", got)
	}
	if rq.Len() != 0 {
		t.Errorf("expected empty queue, got %d", rq.Len())
	}
}
