package rates

import (
	"sync"

	"github.com/freightops/invoice-audit/internal/entity"
)

// ScheduleContext holds at most one active rate schedule. Replacing or
// clearing it invalidates any verdicts computed against the previous
// schedule; that lifecycle belongs to the caller, not to the
// comparator.
type ScheduleContext struct {
	mu     sync.RWMutex
	active *entity.RateSchedule
}

func NewScheduleContext() *ScheduleContext {
	return &ScheduleContext{}
}

// Set replaces the active schedule.
func (c *ScheduleContext) Set(s *entity.RateSchedule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = s
}

// Clear drops the active schedule.
func (c *ScheduleContext) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = nil
}

// Active returns the current schedule, nil when none is set.
func (c *ScheduleContext) Active() *entity.RateSchedule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}
