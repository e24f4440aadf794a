package ascent

import (
	"github.com/akmonengine/ascent/grip"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	GRIP_GRABBED EventType = iota
	GRIP_MISSED
	OBSTACLE_SPAWNED
	OBSTACLE_HIT
	GROUND_HIT
	GAME_LOST
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case GRIP_GRABBED:
		return "grip_grabbed"
	case GRIP_MISSED:
		return "grip_missed"
	case OBSTACLE_SPAWNED:
		return "obstacle_spawned"
	case OBSTACLE_HIT:
		return "obstacle_hit"
	case GROUND_HIT:
		return "ground_hit"
	case GAME_LOST:
		return "game_lost"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Grip events
type GripGrabbedEvent struct {
	Grip     *grip.Grip
	Position mgl64.Vec3
	Score    int
}

func (e GripGrabbedEvent) Type() EventType { return GRIP_GRABBED }

// GripMissedEvent reports grabable grips that scrolled out of reach
type GripMissedEvent struct {
	Count int
	Score int
}

func (e GripMissedEvent) Type() EventType { return GRIP_MISSED }

// Obstacle events
type ObstacleSpawnedEvent struct {
	Obstacle *Obstacle
}

func (e ObstacleSpawnedEvent) Type() EventType { return OBSTACLE_SPAWNED }

type ObstacleHitEvent struct {
	Obstacle *Obstacle
	HP       int
}

func (e ObstacleHitEvent) Type() EventType { return OBSTACLE_HIT }

type GroundHitEvent struct {
	Obstacle *Obstacle
}

func (e GroundHitEvent) Type() EventType { return GROUND_HIT }

type GameLostEvent struct {
	Score int
	Time  float64
}

func (e GameLostEvent) Type() EventType { return GAME_LOST }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event
}

func NewEvents() Events {
	return Events{
		listeners: make(map[EventType][]EventListener),
		buffer:    make([]Event, 0, 16),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

// emit buffers an event until the end of the tick
func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
