package post

import "testing"

func TestPost(t *testing.T) {
	var a int
	Post(func() {
		a = 1
	})
	Tick()
	if a != 1 {
		t.Errorf("a should be 1")
	}
}

func TestQueueNestedPost(t *testing.T) {
	q := NewQueue()
	var order []int
	q.Post(func() {
		order = append(order, 1)
		q.Post(func() {
			order = append(order, 3)
		})
	})
	q.Post(func() {
		order = append(order, 2)
	})
	if q.Len() != 2 {
		t.Fatalf("queue length should be 2, but is %d", q.Len())
	}
	if n := q.Tick(); n != 3 {
		t.Errorf("should run 3 callbacks, but ran %d", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("wrong order: %v", order)
	}
}

func TestQueuePanicDoesNotStop(t *testing.T) {
	q := NewQueue()
	ran := false
	q.Post(func() {
		panic("boom")
	})
	q.Post(func() {
		ran = true
	})
	q.Tick()
	if !ran {
		t.Errorf("callback after a panicking one should still run")
	}
}
