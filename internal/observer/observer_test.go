package observer

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

type recorder struct {
	name string
	log  *[]string
	err  error
}

func (r *recorder) Update(ctx context.Context, ev Event) error {
	*r.log = append(*r.log, r.name+":"+string(ev.Kind))
	return r.err
}

func TestNotifyRunsObserversInRegistrationOrder(t *testing.T) {
	var log []string
	var s Subject
	s.Register(&recorder{name: "a", log: &log})
	s.Register(&recorder{name: "b", log: &log})

	if err := s.Notify(context.Background(), CalculationAdded, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"a:calculation_added", "b:calculation_added"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	var log []string
	var s Subject
	r := &recorder{name: "a", log: &log}
	s.Register(r)
	s.Register(r)

	if got := len(s.Observers()); got != 1 {
		t.Fatalf("expected 1 observer, got %d", got)
	}

	_ = s.Notify(context.Background(), HistoryCleared, nil)
	if len(log) != 1 {
		t.Fatalf("expected observer to run once, ran %d times", len(log))
	}
}

func TestFailingObserverStopsNotification(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	var s Subject
	s.Register(&recorder{name: "a", log: &log, err: boom})
	s.Register(&recorder{name: "b", log: &log})

	err := s.Notify(context.Background(), HistorySaved, "id")
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if len(log) != 1 || log[0] != "a:history_saved" {
		t.Fatalf("expected only first observer to run, got %v", log)
	}
}

func TestRemove(t *testing.T) {
	var log []string
	var s Subject
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	s.Register(a)
	s.Register(b)
	s.Remove(a)

	obs := s.Observers()
	if len(obs) != 1 || obs[0] != Observer(b) {
		t.Fatalf("expected only b to remain, got %v", obs)
	}
}

func TestLoggingObserverWritesEvent(t *testing.T) {
	core, logs := zapobserver.New(zap.InfoLevel)
	o := &LoggingObserver{Logger: zap.New(core)}

	if err := o.Update(context.Background(), Event{Kind: CalculationDeleted, Payload: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["event"]; got != "calculation_deleted" {
		t.Fatalf("expected event %q, got %#v", "calculation_deleted", got)
	}
}
