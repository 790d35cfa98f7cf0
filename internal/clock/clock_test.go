package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_AdvanceAndSet(t *testing.T) {
	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	c := NewManual(t0)
	assert.Equal(t, t0, c.Now())

	got := c.Advance(90 * time.Minute)
	assert.Equal(t, t0.Add(90*time.Minute), got)
	assert.Equal(t, got, c.Now())

	c.Set(t0)
	assert.Equal(t, t0, c.Now())
}

func TestSystem_ReturnsUTC(t *testing.T) {
	now := System{}.Now()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}

func TestOrSystem(t *testing.T) {
	assert.IsType(t, System{}, OrSystem(nil))

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := OrSystem(Func(func() time.Time { return fixed }))
	assert.Equal(t, fixed, c.Now())
}
