package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"heropatch/internal/batch"
)

func TestObserveCountsOutcomes(t *testing.T) {
	r := New()
	r.Observe(batch.Outcome{Phase: batch.PhaseFetch, Status: batch.StatusDownloaded, Bytes: 2048, Duration: 1200 * time.Millisecond})
	r.Observe(batch.Outcome{Phase: batch.PhaseFetch, Status: batch.StatusSkipped})
	r.Observe(batch.Outcome{Phase: batch.PhasePatch, Status: batch.StatusPatched})
	r.Observe(batch.Outcome{Phase: batch.PhasePatch, Status: batch.StatusPatched})

	require.Equal(t, 1.0, testutil.ToFloat64(r.entriesTotal.WithLabelValues("fetch", "downloaded")))
	require.Equal(t, 2.0, testutil.ToFloat64(r.entriesTotal.WithLabelValues("patch", "patched")))
	require.Equal(t, 2048.0, testutil.ToFloat64(r.downloadedBytes))
	require.Equal(t, 1, testutil.CollectAndCount(r.fetchDuration))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Observe(batch.Outcome{Phase: batch.PhasePatch, Status: batch.StatusWarned})
	r.MarkFinished(time.Unix(1_700_000_000, 0))

	path := filepath.Join(t.TempDir(), "textfile", "heropatch.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.True(t, strings.Contains(text, `heropatch_entries_total{phase="patch",status="warned"} 1`), text)
	require.Contains(t, text, "heropatch_last_run_timestamp_seconds 1.7e+09")
	require.Contains(t, text, "# TYPE heropatch_fetch_duration_seconds histogram")
}
