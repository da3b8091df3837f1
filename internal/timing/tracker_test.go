package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"positive-area/internal/logger"
)

func TestTrackerRecordsSpans(t *testing.T) {
	tt := NewTracker()

	for i := 0; i < 3; i++ {
		span := tt.Start("compute")
		time.Sleep(time.Millisecond)
		assert.GreaterOrEqual(t, span.Stop(), time.Millisecond)
	}
	tt.Start("write").Stop()

	assert.Len(t, tt.GetTimings("compute"), 3)
	assert.GreaterOrEqual(t, tt.GetAverageTime("compute"), time.Millisecond)
	assert.Equal(t, []string{"compute", "write"}, tt.Operations())
	assert.Nil(t, tt.GetTimings("validate"))
	assert.Zero(t, tt.GetAverageTime("validate"))

	tt.Log(logger.NewNop(), "Test")

	tt.Reset("write")
	assert.Equal(t, []string{"compute"}, tt.Operations())
	tt.Reset("")
	assert.Empty(t, tt.Operations())
}

func TestTimingsAreCopies(t *testing.T) {
	tt := NewTracker()
	tt.Start("a").Stop()
	got := tt.GetTimings("a")
	got[0] = time.Hour
	assert.NotEqual(t, time.Hour, tt.GetTimings("a")[0])
}
