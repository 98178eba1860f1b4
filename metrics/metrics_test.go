package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreLabelled(t *testing.T) {
	before := testutil.ToFloat64(MediaUploaded.WithLabelValues("photo"))
	MediaUploaded.WithLabelValues("photo").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MediaUploaded.WithLabelValues("photo")))

	beforeRejected := testutil.ToFloat64(MediaRejected.WithLabelValues("video", "too_large"))
	MediaRejected.WithLabelValues("video", "too_large").Inc()
	assert.Equal(t, beforeRejected+1, testutil.ToFloat64(MediaRejected.WithLabelValues("video", "too_large")))
}

func TestHandlerServesOnlyMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "stories_test_total", Help: "test"})
	reg.MustRegister(c)
	c.Add(3)

	h := Handler(reg)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "stories_test_total 3")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/get-veterans", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListenBindsAndCloses(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "stories_listener_total", Help: "test"}))

	l, err := Listen(config.MetricsConfig{BindAddress: "127.0.0.1", Port: 0}, reg)
	require.NoError(t, err)

	res, err := http.Get("http://" + l.Addr() + "/metrics")
	require.NoError(t, err)
	b, err := io.ReadAll(res.Body)
	_ = res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(b), "stories_listener_total 0")

	// A second listener on the same port must fail up front
	_, err = Listen(config.MetricsConfig{BindAddress: "127.0.0.1", Port: portOf(t, l)}, reg)
	assert.Error(t, err)

	require.NoError(t, l.Close(context.Background()))
	_, err = http.Get("http://" + l.Addr() + "/metrics")
	assert.Error(t, err)
}

func portOf(t *testing.T, l *Listener) int {
	addr, ok := l.addr.(*net.TCPAddr)
	require.True(t, ok)
	return addr.Port
}
