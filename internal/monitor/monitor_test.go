package monitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsSnapshotCopiesMaps(t *testing.T) {
	s := NewStats()
	s.RecordWorldBuild(2, 5)
	s.RecordHit("ftof")
	s.RecordHit("ftof")
	s.RecordHit("ec")
	s.RecordBufferOccupancy("out.0.json", 7, 100)

	snap := s.Snapshot()
	require.Equal(t, 2, snap.WorldPasses)
	require.Equal(t, 5, snap.WorldVolumes)
	require.Equal(t, 2, snap.HitsByDetector["ftof"])
	require.Equal(t, 1, snap.HitsByDetector["ec"])
	require.Equal(t, 7, snap.BufferOccupancy["out.0.json"])
	require.Equal(t, 100, snap.BufferLimit["out.0.json"])

	s.RecordHit("ftof")
	require.Equal(t, 2, snap.HitsByDetector["ftof"], "snapshot must not alias live counters")
}

func TestHealthEndpointReportsOK(t *testing.T) {
	ws := NewWebServer(":0", NewStats(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestWorldChartRendersHTML(t *testing.T) {
	s := NewStats()
	s.RecordWorldBuild(3, 9)
	ws := NewWebServer(":0", s, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/world", nil)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
}

func TestHitsChartHandlesEmptyStats(t *testing.T) {
	ws := NewWebServer(":0", NewStats(), nil)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/hits", nil)
	rec := httptest.NewRecorder()
	ws.routes().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
