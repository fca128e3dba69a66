package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gallerykit/gallery-enrich/internal/catalog"
	"github.com/gallerykit/gallery-enrich/internal/config"
)

func TestPreviewSuffixes(t *testing.T) {
	t.Parallel()

	got := PreviewSuffixes([]int{1920, 320, 1280, 800, 128})
	assert.Equal(t, []string{"preview-800.jpg", "preview-320.jpg", "preview-128.jpg"}, got,
		"sizes above %d are dropped, largest first", MaxPreviewSize)

	assert.Empty(t, PreviewSuffixes([]int{1920, 1280}))
	assert.Empty(t, PreviewSuffixes(nil))
}

func apiConfig(url string) config.APIConfig {
	return config.APIConfig{
		URL:            url,
		Concurrent:     2,
		TimeoutSeconds: 5,
		PreviewSizes:   []int{1920, 800, 400},
	}
}

func TestDisabledFeatureMakesNoCalls(t *testing.T) {
	t.Parallel()

	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	cfg := apiConfig(srv.URL)
	cfg.Disable = config.FeatureList{"objects"}

	store := catalog.NewMemStore()
	entry := &catalog.Entry{ID: "d1", Type: catalog.TypeImage}
	require.NoError(t, store.Write(entry, "preview-400.jpg", []byte("jpeg")))

	logger, _ := newTestLogger()
	stage, err := NewFeatureStage(cfg, Objects, store, logger)
	require.NoError(t, err)

	out := drain(context.Background(), stage, []*catalog.Entry{entry})

	assert.Len(t, out, 1, "a disabled feature is a pure pass-through")
	assert.Zero(t, atomic.LoadInt64(&calls))
	assert.False(t, store.Has(entry, "objects.json"))
}

func TestFeatureStageEnrichesEligibleEntries(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects", r.URL.Path)
		_, _ = w.Write([]byte(`{"objects":[]}`))
	}))
	t.Cleanup(srv.Close)

	store := catalog.NewMemStore()
	entry := &catalog.Entry{ID: "f1", Type: catalog.TypeImage}
	require.NoError(t, store.Write(entry, "preview-400.jpg", []byte("jpeg")))

	logger, _ := newTestLogger()
	stage, err := NewFeatureStage(apiConfig(srv.URL), Objects, store, logger)
	require.NoError(t, err)

	out := drain(context.Background(), stage, []*catalog.Entry{entry})
	require.Len(t, out, 1)

	body, err := store.Read(entry, "objects.json")
	require.NoError(t, err)
	assert.Equal(t, `{"objects":[]}`, string(body))
}

func TestFeatureStageStopsCallingAfterTrip(t *testing.T) {
	t.Parallel()

	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	cfg := apiConfig(srv.URL)
	cfg.Concurrent = 1 // deterministic call ordering

	store := catalog.NewMemStore()
	entries := make([]*catalog.Entry, 0, 10)
	for i := 0; i < 10; i++ {
		entry := &catalog.Entry{ID: fmt.Sprintf("t%02d", i), Type: catalog.TypeImage}
		require.NoError(t, store.Write(entry, "preview-400.jpg", []byte("jpeg")))
		entries = append(entries, entry)
	}

	logger, buf := newTestLogger()
	stage, err := NewFeatureStage(cfg, Faces, store, logger)
	require.NoError(t, err)

	out := drain(context.Background(), stage, entries)

	assert.Len(t, out, 10, "gated entries still pass through")
	assert.EqualValues(t, TripThreshold+1, atomic.LoadInt64(&calls),
		"dispatch stops once the budget trips")
	assert.Equal(t, 1, strings.Count(buf.String(), "too many errors"))
}

func TestEndpointNotice(t *testing.T) {
	t.Parallel()

	logger, buf := newTestLogger()
	stage := EndpointNotice(apiConfig(config.DefaultAPIURL), logger)
	assert.Contains(t, buf.String(), "api-privacy", "default endpoint warns")

	entries := []*catalog.Entry{{ID: "n1", Type: catalog.TypeOther}}
	out := drain(context.Background(), stage, entries)
	assert.Equal(t, entries, out)

	logger, buf = newTestLogger()
	EndpointNotice(apiConfig("https://inference.example.test"), logger)
	assert.NotContains(t, buf.String(), "api-privacy")
	assert.Contains(t, buf.String(), "inference.example.test")
}
