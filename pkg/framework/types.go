package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Message is anything posted to a loop for consumption by controllers
// in a later iteration. Producers (transport readers, the console) post
// messages; controllers drain them. This funnels all mutation of
// loop-owned state through a single logical thread.
type Message any

// Controller defines the logic executed on every loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(ctx ControlContext) error {
	return f(ctx)
}

// TimeSource provides the time for controlling logic.
type TimeSource interface {
	Time() time.Time
}

// ControlContext provides the context of the current loop iteration.
// Time is sampled once when the iteration starts so every controller
// in the same pass observes the same instant.
type ControlContext interface {
	TimeSource
	// Context retrieves context.Context.
	Context() context.Context
	// Messages returns the messages collected before this iteration
	// started, in posting order.
	Messages() []Message

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// PostMessage enqueues a message for the next iteration.
	PostMessage(Message)
	// TriggerNext schedules the next iteration to be executed
	// immediately instead of waiting for the tick.
	TriggerNext()
}
