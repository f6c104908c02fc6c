package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockClock(t *testing.T) {
	start := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fixed until advanced", func(t *testing.T) {
		c := NewMockClock(start)
		assert.Equal(t, start, c.Now())
		assert.Equal(t, start, c.Now())

		c.Advance(time.Minute)
		assert.Equal(t, start.Add(time.Minute), c.Now())

		c.Set(start)
		assert.Equal(t, start, c.Now())
	})

	t.Run("step advances on every read", func(t *testing.T) {
		c := NewMockClock(start)
		c.Step(250 * time.Millisecond)

		begin := c.Now()
		assert.Equal(t, 250*time.Millisecond, Since(c, begin))
	})
}

func TestRealClock(t *testing.T) {
	c := NewRealClock()
	begin := c.Now()
	assert.GreaterOrEqual(t, Since(c, begin), time.Duration(0))
}
