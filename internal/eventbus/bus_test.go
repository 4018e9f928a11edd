package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Publish("hello")
	if v := <-ch; v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected channel closed after unsubscribe")
	}
}

func TestBusFanOut(t *testing.T) {
	bus := New[int]()
	a, b := bus.Subscribe(), bus.Subscribe()
	bus.Publish(7)
	if <-a != 7 || <-b != 7 {
		t.Fatalf("every subscriber should receive the event")
	}
}

func TestBusCountsDrops(t *testing.T) {
	bus := NewBuffered[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	bus.Publish(3)
	if got := bus.Dropped(); got != 2 {
		t.Fatalf("expected 2 dropped got %d", got)
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected first event kept got %d", v)
	}
}

func TestBusClose(t *testing.T) {
	bus := New[string]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("subscribe after close should return a closed channel")
	}
	bus.Publish("ignored")
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[string]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
