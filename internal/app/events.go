// Package app ties the asset cache, overlay model, gesture controller,
// compositor and exporter into one assessment session.
package app

import (
	"sync"

	"assessment-cam/internal/asset"
)

// EventType identifies session events.
type EventType int

const (
	EventBaseCaptured    EventType = iota // data: geometry.Size of the new surface
	EventStickersChanged                  // data: []asset.ID placed, in paint order
	EventAssetLoaded                      // data: AssetLoaded
	EventFrameRendered                    // data: *image.RGBA
	EventExported                         // data: string path
	EventSideChanged                      // data: asset.Side
	EventCameraSwitched                   // data: string device label
)

func (e EventType) String() string {
	switch e {
	case EventBaseCaptured:
		return "BaseCaptured"
	case EventStickersChanged:
		return "StickersChanged"
	case EventAssetLoaded:
		return "AssetLoaded"
	case EventFrameRendered:
		return "FrameRendered"
	case EventExported:
		return "Exported"
	case EventSideChanged:
		return "SideChanged"
	case EventCameraSwitched:
		return "CameraSwitched"
	default:
		return "Unknown"
	}
}

// AssetLoaded is the payload of EventAssetLoaded. Err is nil on success.
type AssetLoaded struct {
	ID  asset.ID
	Err error
}

// EventListener is called when an event occurs.
type EventListener func(data interface{})

type emitter struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

// On registers an event listener for the specified event type.
func (e *emitter) On(event EventType, listener EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (e *emitter) Emit(event EventType, data interface{}) {
	e.mu.RLock()
	listeners := e.listeners[event]
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}
