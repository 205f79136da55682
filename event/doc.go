// Package event provides the entity-with-events base used by every editor
// object that broadcasts changes: handlers, models, the camera and the mode
// host.
//
// Delivery is synchronous and single-threaded. Emit calls the listeners that
// were registered when the emission started, in registration order:
//
//	h := handler.New(cam)
//	tok := event.Listen(h, func(ev event.PositionChanged) {
//		fmt.Println(ev.NewPosition)
//	})
//	defer h.Off(event.NamePositionChanged, tok)
//
// Payloads form a closed set: every event name has exactly one payload
// struct, defined in events.go.
package event
