package event

import "testing"

func TestSubscribePublish(t *testing.T) {
	var e Emitter[int]
	var got []int

	unsub := e.Subscribe(func(v int) { got = append(got, v) })
	e.Publish(1)
	e.Publish(2)
	unsub()
	e.Publish(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("got %v, want [1 2]", got)
	}
}

func TestPublishOrder(t *testing.T) {
	var e Emitter[string]
	var order []int

	e.Subscribe(func(string) { order = append(order, 1) })
	e.Subscribe(func(string) { order = append(order, 2) })
	e.Subscribe(func(string) { order = append(order, 3) })
	e.Publish("x")

	for i, want := range []int{1, 2, 3} {
		if order[i] != want {
			t.Fatalf("delivery order %v, want [1 2 3]", order)
		}
	}
}

func TestUnsubscribeDuringPublish(t *testing.T) {
	var e Emitter[struct{}]
	calls := 0

	var unsub2 func()
	e.Subscribe(func(struct{}) {
		calls++
		unsub2()
	})
	unsub2 = e.Subscribe(func(struct{}) { calls++ })

	// second handler was subscribed at publish time, so the snapshot
	// still delivers to it even though the first handler removed it
	e.Publish(struct{}{})
	if calls != 2 {
		t.Errorf("first publish reached %d handlers, want 2", calls)
	}

	e.Publish(struct{}{})
	if calls != 3 {
		t.Errorf("second publish reached %d handlers total, want 3", calls)
	}
}

func TestDoubleUnsubscribe(t *testing.T) {
	var e Emitter[int]
	calls := 0
	unsub := e.Subscribe(func(int) { calls++ })
	keep := e.Subscribe(func(int) { calls++ })
	_ = keep

	unsub()
	unsub()
	e.Publish(0)
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}
