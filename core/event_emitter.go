package orchestration

import "github.com/koscakluka/ema-assist/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// EventHandler receives every state change of a session. It is called from
// whichever goroutine caused the change and never while the session holds
// its lock.
type EventHandler func(events.Event)
