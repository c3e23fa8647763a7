package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersBeforeRegisterAreNoops(t *testing.T) {
	if regOK.Load() {
		t.Skip("collectors already registered by another test")
	}
	IncChange("status_changed")
	assert.Zero(t, testutil.ToFloat64(changes.WithLabelValues("status_changed")))
}

func TestRegisterAndRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg), "second Register must be a no-op")

	before := testutil.ToFloat64(cycles)
	ObserveCycle(250*time.Millisecond, 3)
	IncSampleFailure()
	IncChange("name_changed")
	IncNotifyFailure()

	assert.Equal(t, before+1, testutil.ToFloat64(cycles))
	assert.Equal(t, float64(3), testutil.ToFloat64(tracked))
	assert.GreaterOrEqual(t, testutil.ToFloat64(changes.WithLabelValues("name_changed")), float64(1))

	n, err := testutil.GatherAndCount(reg, "presencecord_notify_messages_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	expected := `
# HELP presencecord_tracker_sample_failures_total Poll cycles whose Steam fetch failed as a whole.
# TYPE presencecord_tracker_sample_failures_total counter
presencecord_tracker_sample_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "presencecord_tracker_sample_failures_total"))
}
