package events

import (
	"errors"
	"sync"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	var bus Bus
	var got []string
	bus.Subscribe(func(e Event) { got = append(got, "first:"+e.Kind.String()) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+e.Kind.String()) })

	bus.Publish(Event{Kind: LoadStarted})

	want := []string{"first:load_started", "second:load_started"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnsubscribe(t *testing.T) {
	var bus Bus
	calls := 0
	unsub := bus.Subscribe(func(Event) { calls++ })
	bus.Publish(Event{Kind: LoadCompleted})
	unsub()
	unsub()
	bus.Publish(Event{Kind: LoadCompleted})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPublishSetsTimeAndCarriesFields(t *testing.T) {
	var bus Bus
	var got Event
	bus.Subscribe(func(e Event) { got = e })
	boom := errors.New("boom")
	bus.Publish(Event{Kind: LoadFailed, Err: boom})
	if got.At.IsZero() {
		t.Error("expected At to be set")
	}
	if !errors.Is(got.Err, boom) {
		t.Errorf("Err = %v, want boom", got.Err)
	}
}

func TestHandlerMaySubscribe(t *testing.T) {
	var bus Bus
	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) {})
	})
	bus.Publish(Event{Kind: EntitySelected, Ticker: "TSLA"})
}

func TestNilBusPublish(t *testing.T) {
	var bus *Bus
	bus.Publish(Event{Kind: LoadStarted})
}

func TestConcurrentPublish(t *testing.T) {
	var bus Bus
	var mu sync.Mutex
	n := 0
	bus.Subscribe(func(Event) {
		mu.Lock()
		n++
		mu.Unlock()
	})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bus.Publish(Event{Kind: RefreshIgnored})
		}()
	}
	wg.Wait()
	if n != 50 {
		t.Errorf("n = %d, want 50", n)
	}
}

func TestKindString(t *testing.T) {
	if Kind(99).String() != "unknown" {
		t.Error("expected unknown for out of range kind")
	}
}
