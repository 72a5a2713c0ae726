// Package training schedules the callbacks run at the end of training epochs.
package training

import "context"

// NewEpochCallback creates a new EpochCallback that triggers every interval epochs.
// Intervals below one trigger on every epoch.
func NewEpochCallback(interval int, execute func(ctx context.Context, epoch int) error) *EpochCallback {
	if interval < 1 {
		interval = 1
	}
	return &EpochCallback{
		LastTriggerAtEpoch: -1,
		interval:           interval,
		executeFn:          execute,
	}
}

// ShouldTrigger checks if the callback should trigger, counting epochs from zero
func (ec *EpochCallback) ShouldTrigger(epoch int) bool {
	// First trigger lands on the first epoch at or past the interval-th one,
	// so sparse epoch sequences still get evaluated
	if ec.LastTriggerAtEpoch < 0 {
		return epoch+1 >= ec.interval
	}

	return epoch-ec.LastTriggerAtEpoch >= ec.interval
}

// Execute runs the callback and records the epoch on success
func (ec *EpochCallback) Execute(ctx context.Context, epoch int) error {
	if err := ec.executeFn(ctx, epoch); err != nil {
		// failed executions are retried at the next epoch
		return err
	}
	ec.LastTriggerAtEpoch = epoch
	return nil
}

// GetName returns the callback name
func (ec *EpochCallback) GetName() string {
	return InferNameFromFunc(ec.executeFn)
}
