package events

// EventCollector is embedded in aggregates. Events raised by a state change
// are queued until the application layer drains them for publication.
type EventCollector struct {
	pending []DomainEvent
}

// Record queues events in the order they were raised.
func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending reports how many events are waiting to be drained.
func (c *EventCollector) Pending() int {
	return len(c.pending)
}

// Drain returns the queued events and empties the queue.
func (c *EventCollector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
