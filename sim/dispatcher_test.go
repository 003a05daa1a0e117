package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipeline-sim/pipeline-sim/sim/process"
)

func newUniformDispatcher(t *testing.T, goal, goalFactor, consumerRate float64) (*Dispatcher, *Consumer) {
	t.Helper()
	cons, _ := newUniformConsumer(t, consumerRate)
	d, err := NewDispatcher(goal, goalFactor, cons, process.Uniform, 0, nil)
	require.NoError(t, err)
	return d, cons
}

func TestNewDispatcher_LimitFormula(t *testing.T) {
	tests := []struct {
		name         string
		goal         float64 // microseconds
		goalFactor   float64
		consumerRate float64 // requests per second
		wantLimit    int
		wantErr      bool
	}{
		{
			// 500us * 1.5 / 1000us rounds down to zero admitted requests.
			name:         "goal too tight for service latency",
			goal:         500,
			goalFactor:   1.5,
			consumerRate: 1000,
			wantErr:      true,
		},
		{
			name:         "three requests of headroom",
			goal:         2000,
			goalFactor:   1.5,
			consumerRate: 1000,
			wantLimit:    3,
		},
		{
			name:         "exactly one request",
			goal:         1000,
			goalFactor:   1.0,
			consumerRate: 1000,
			wantLimit:    1,
		},
		{
			name:         "fast consumer",
			goal:         500,
			goalFactor:   1.5,
			consumerRate: 10000, // 100us per request
			wantLimit:    7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cons, _ := newUniformConsumer(t, tt.consumerRate)
			d, err := NewDispatcher(tt.goal, tt.goalFactor, cons, process.Uniform, 0, nil)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "concurrency limit is zero")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, d.Limit())
		})
	}
}

func TestNewDispatcher_InvalidParams(t *testing.T) {
	cons, _ := newUniformConsumer(t, 1000)
	if _, err := NewDispatcher(0, 1.5, cons, process.Uniform, 0, nil); err == nil {
		t.Error("zero latency goal should fail")
	}
	if _, err := NewDispatcher(2000, 0, cons, process.Uniform, 0, nil); err == nil {
		t.Error("zero goal factor should fail")
	}
	if _, err := NewDispatcher(2000, 1.5, cons, "gaussian", 0, nil); err == nil {
		t.Error("unknown pacing process should fail")
	}
}

func TestDispatcher_NeverExceedsLimit(t *testing.T) {
	d, cons := newUniformDispatcher(t, 2000, 1.5, 1000) // limit 3

	for i := int64(0); i < 10; i++ {
		d.Queue(Request{Start: i})
	}
	d.Tick(0)

	assert.Equal(t, 3, cons.Executing())
	assert.Equal(t, 7, d.Queued())
	assert.Equal(t, uint64(3), d.Dispatched())
}

func TestDispatcher_PacingGatesAdmission(t *testing.T) {
	d, cons := newUniformDispatcher(t, 2000, 1.5, 1000)

	for i := 0; i < 6; i++ {
		d.Queue(Request{})
	}

	d.Tick(0) // pacing epoch 0 due: fill to the limit
	require.Equal(t, 3, cons.Executing())

	cons.Tick(1000) // one completion frees a slot
	require.Equal(t, 2, cons.Executing())

	d.Tick(1000) // next pacing epoch is 2000: no admission yet
	assert.Equal(t, 2, cons.Executing())
	assert.Equal(t, uint64(3), d.Dispatched())

	d.Tick(2000) // epoch due: top back up to the limit
	assert.Equal(t, 3, cons.Executing())
	assert.Equal(t, uint64(4), d.Dispatched())
}

func TestDispatcher_StampsDispatchTime(t *testing.T) {
	cons, st := newUniformConsumer(t, 1000)
	d, err := NewDispatcher(2000, 1.5, cons, process.Uniform, 0, nil)
	require.NoError(t, err)

	d.Queue(Request{Start: 100})
	d.Tick(700)     // admitted at 700
	cons.Tick(1700) // completes at 1700

	require.Equal(t, uint64(1), st.Total().Count())
	assert.Equal(t, 1600.0, st.Total().Max())     // 1700 - 100
	assert.Equal(t, 1000.0, st.Execution().Max()) // 1700 - 700
}

func TestDispatcher_EmptyBacklogTickIsNoop(t *testing.T) {
	d, cons := newUniformDispatcher(t, 2000, 1.5, 1000)
	d.Tick(0)
	assert.Equal(t, 0, cons.Executing())
	assert.Equal(t, uint64(0), d.Dispatched())
	assert.Equal(t, 0, d.Queued())
}
