// Package clock supplies "now" and civil date-time parsing in the single fixed
// timezone the service operates in. Nothing in the engine reads the host's local
// timezone.
package clock

import (
	"fmt"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"

	"fieldservice/internal/pkg/errs"
)

const (
	// DefaultTimezone is used when configuration leaves the timezone empty.
	DefaultTimezone = "America/Bogota"

	civilDateLayout = "2006-01-02"
	civilTimeLayout = "15:04"
)

// ServiceClock reads time in the service timezone.
type ServiceClock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a ServiceClock for the IANA timezone name.
func New(timezone string) (*ServiceClock, error) {
	if strings.TrimSpace(timezone) == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load service timezone %q: %w", timezone, err)
	}
	return &ServiceClock{loc: loc, now: time.Now}, nil
}

// Now returns the current instant in the service timezone, truncated to microseconds
// so values survive a database round trip unchanged.
func (c *ServiceClock) Now() time.Time {
	return c.now().In(c.loc).Truncate(time.Microsecond)
}

// Location returns the service timezone.
func (c *ServiceClock) Location() *time.Location {
	return c.loc
}

// In converts t to the service timezone.
func (c *ServiceClock) In(t time.Time) time.Time {
	return t.In(c.loc)
}

// Combine joins a civil date ("2006-01-02") and a wall-clock time ("15:04") into an
// instant in the service timezone.
func (c *ServiceClock) Combine(date, wallClock string) (time.Time, error) {
	return CombineIn(c.loc, date, wallClock)
}

// CombineIn joins date and wallClock in loc.
func CombineIn(loc *time.Location, date, wallClock string) (time.Time, error) {
	raw := strings.TrimSpace(date) + " " + strings.TrimSpace(wallClock)
	t, err := time.ParseInLocation(civilDateLayout+" "+civilTimeLayout, raw, loc)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause("scheduled date and time", err)
	}
	return t, nil
}

// FixedClock is a settable clock for tests and replays.
type FixedClock struct {
	mu  sync.Mutex
	loc *time.Location
	now time.Time
}

// NewFixed returns a FixedClock frozen at now, reported in loc.
func NewFixed(now time.Time, loc *time.Location) *FixedClock {
	if loc == nil {
		loc = time.UTC
	}
	return &FixedClock{loc: loc, now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.In(c.loc)
}

func (c *FixedClock) Location() *time.Location {
	return c.loc
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to now.
func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
