package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

func newUniformConsumer(t *testing.T, rate float64) (*Consumer, *Collector) {
	t.Helper()
	st := NewCollector()
	c, err := NewConsumer(rate, process.Uniform, 0, nil, st)
	require.NoError(t, err)
	return c, st
}

func TestNewConsumer_InvalidRate(t *testing.T) {
	for _, rate := range []float64{0, -1, -1000} {
		_, err := NewConsumer(rate, process.Uniform, 0, nil, NewCollector())
		if err == nil {
			t.Errorf("NewConsumer(rate=%v) should fail", rate)
		}
	}
}

func TestNewConsumer_BadProcess(t *testing.T) {
	_, err := NewConsumer(1000, "gaussian", 0, nil, NewCollector())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer pacing")
}

func TestConsumer_Latency(t *testing.T) {
	c, _ := newUniformConsumer(t, 1000) // 1000/s => 1000us per request
	assert.Equal(t, 1000.0, c.Latency())
}

func TestConsumer_CompletesAtPacedEpoch(t *testing.T) {
	c, st := newUniformConsumer(t, 1000)

	c.Execute(0, Request{Start: 0, Dispatch: 0})
	assert.Equal(t, 1, c.Executing())

	c.Tick(999)
	assert.Equal(t, uint64(0), c.Processed(), "completion slot not yet due")

	c.Tick(1000)
	assert.Equal(t, uint64(1), c.Processed())
	assert.Equal(t, 0, c.Executing())
	assert.Equal(t, 1000.0, st.Total().Max())
}

func TestConsumer_BurstCatchUp(t *testing.T) {
	c, _ := newUniformConsumer(t, 1000)

	for i := 0; i < 3; i++ {
		c.Execute(0, Request{Start: 0, Dispatch: 0})
	}
	assert.Equal(t, 3, c.Executing())

	// One big jump: slots at 1000, 2000, 3000 are all due. All three must
	// retire within the same tick.
	c.Tick(3000)
	assert.Equal(t, uint64(3), c.Processed())
	assert.Equal(t, 0, c.Executing())
}

func TestConsumer_IdleServerReschedulesOnExecute(t *testing.T) {
	c, _ := newUniformConsumer(t, 1000)

	c.Execute(0, Request{Start: 0})
	c.Tick(1000)
	require.Equal(t, uint64(1), c.Processed())

	// The server sat idle until 5000; the next slot counts from Execute,
	// not from the stale epoch.
	c.Execute(5000, Request{Start: 5000})
	c.Tick(5999)
	assert.Equal(t, uint64(1), c.Processed())
	c.Tick(6000)
	assert.Equal(t, uint64(2), c.Processed())
}

func TestConsumer_RecordsBothLatencies(t *testing.T) {
	c, st := newUniformConsumer(t, 1000)

	c.Execute(500, Request{Start: 100, Dispatch: 500})
	c.Tick(1500)

	require.Equal(t, uint64(1), st.Total().Count())
	assert.Equal(t, 1400.0, st.Total().Max())     // 1500 - 100
	assert.Equal(t, 1000.0, st.Execution().Max()) // 1500 - 500
}
