package photomap

import "github.com/agentstation/photomap/pkg/store"

// Compile-time interface check to ensure proper implementation.
var _ ErrorSlot = (*client)(nil)

// ErrorSlot is the single user-visible error.
type ErrorSlot interface {
	// Report shows message, replacing any previous one
	Report(message string)

	// Acknowledge hides the current message
	Acknowledge()

	// ErrorState returns the slot
	ErrorState() store.ErrorState
}

// Report shows message, replacing any previous one.
func (c *client) Report(message string) {
	c.report(message)
}

// Acknowledge hides the current message.
func (c *client) Acknowledge() {
	c.state.Acknowledge()
}

// ErrorState returns the slot.
func (c *client) ErrorState() store.ErrorState {
	return c.state.Error()
}

func (c *client) report(message string) {
	c.state.Report(message)
	c.metrics.RecordErrorReported()
	c.logger.Warn().Msg(message)
	c.hooks.triggerError(message)
}
