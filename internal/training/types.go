package training

import "context"

// EpochCallback is a callback that triggers every N epochs.
// WARN: when epochs are skipped (e.g. only some checkpoints were kept) it triggers once
// for the gap instead of once per missed interval.
type EpochCallback struct {
	LastTriggerAtEpoch int
	// interval is the number of epochs between triggers
	interval  int
	executeFn func(ctx context.Context, epoch int) error
}

type CallbackHandler interface {
	// Determines if the callback should trigger at the end of this epoch
	ShouldTrigger(epoch int) bool
	// Executes the callback logic and returns an error if it fails
	Execute(ctx context.Context, epoch int) error
	// Returns the name of the callback, which may be inferred from the function name
	GetName() string
}
