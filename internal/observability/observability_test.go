package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics("cleaner")
	b := NewMetrics("cleaner")

	a.RowsRead.Add(7)
	a.RowsDropped.WithLabelValues(ReasonOutsideBoundingBox).Inc()

	assert.InDelta(t, 7, testutil.ToFloat64(a.RowsRead), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.RowsRead), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(a.RowsDropped.WithLabelValues(ReasonOutsideBoundingBox)), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics("charter")
	m.LastRunSuccess.Set(1)

	require.NoError(t, m.WriteTextfile(""))

	path := filepath.Join(t.TempDir(), "charter.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `cable_theft_last_run_success{pipeline="charter"} 1`)
}
