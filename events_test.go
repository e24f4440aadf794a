package ascent

import "testing"

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func TestEvents_FlushDelivers(t *testing.T) {
	events := NewEvents()
	grabbed := &eventCapture{}
	lost := &eventCapture{}
	events.Subscribe(GRIP_GRABBED, grabbed.capture)
	events.Subscribe(GAME_LOST, lost.capture)

	events.emit(GripGrabbedEvent{Score: 1})
	events.emit(GripGrabbedEvent{Score: 2})
	events.emit(ObstacleHitEvent{HP: 2})

	if grabbed.count() != 0 {
		t.Fatalf("events must wait for the flush")
	}

	events.flush()

	if grabbed.count() != 2 {
		t.Fatalf("expected 2 grab events, got %d", grabbed.count())
	}
	if grabbed.events[0].(GripGrabbedEvent).Score != 1 || grabbed.events[1].(GripGrabbedEvent).Score != 2 {
		t.Errorf("events must keep their order")
	}
	if lost.count() != 0 {
		t.Errorf("no loss was emitted")
	}

	events.flush()
	if grabbed.count() != 2 {
		t.Errorf("buffer must be cleared by the flush")
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	first := &eventCapture{}
	second := &eventCapture{}
	events.Subscribe(GROUND_HIT, first.capture)
	events.Subscribe(GROUND_HIT, second.capture)

	events.emit(GroundHitEvent{})
	events.flush()

	if first.count() != 1 || second.count() != 1 {
		t.Errorf("every listener must receive the event")
	}
}

func TestEvents_ZeroValueSubscribe(t *testing.T) {
	var events Events
	capture := &eventCapture{}
	events.Subscribe(OBSTACLE_SPAWNED, capture.capture)

	events.emit(ObstacleSpawnedEvent{})
	events.flush()

	if capture.countType(OBSTACLE_SPAWNED) != 1 {
		t.Errorf("expected the spawn event")
	}
}

func TestEventType_String(t *testing.T) {
	tests := []struct {
		eventType EventType
		want      string
	}{
		{GRIP_GRABBED, "grip_grabbed"},
		{GRIP_MISSED, "grip_missed"},
		{OBSTACLE_SPAWNED, "obstacle_spawned"},
		{OBSTACLE_HIT, "obstacle_hit"},
		{GROUND_HIT, "ground_hit"},
		{GAME_LOST, "game_lost"},
		{EventType(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.eventType.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}
