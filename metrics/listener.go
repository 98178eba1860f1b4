package metrics

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handler exposes everything g gathers on /metrics. Other paths are 404.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{
		ErrorLog:      logrus.StandardLogger(),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	return mux
}

// Listener is a metrics HTTP server bound to its own address, apart from the story API.
type Listener struct {
	server *http.Server
	addr   net.Addr
}

// Listen binds the metrics address from conf and serves Handler(g) in the background.
// Binding happens before returning so a port clash surfaces as an error.
func Listen(conf config.MetricsConfig, g prometheus.Gatherer) (*Listener, error) {
	address := net.JoinHostPort(conf.BindAddress, strconv.Itoa(conf.Port))
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return nil, errors.Wrap(err, "error binding metrics listener")
	}

	l := &Listener{
		server: &http.Server{Handler: Handler(g), ReadHeaderTimeout: 10 * time.Second},
		addr:   ln.Addr(),
	}
	go func() {
		if err := l.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			logrus.Error("Metrics listener stopped: ", err)
		}
	}()
	return l, nil
}

func (l *Listener) Addr() string {
	return l.addr.String()
}

func (l *Listener) Close(ctx context.Context) error {
	return l.server.Shutdown(ctx)
}

var current *Listener
var currentLock = &sync.Mutex{}

// Start runs the process-wide metrics listener when metrics are enabled in the loaded config.
func Start() {
	conf := config.Get().Metrics
	if !conf.Enabled {
		logrus.Info("Metrics disabled")
		return
	}

	l, err := Listen(conf, prometheus.DefaultGatherer)
	if err != nil {
		logrus.Error(err)
		return
	}
	//goland:noinspection HttpUrlsUsage
	logrus.WithField("address", l.Addr()).Info("Started metrics listener. Listening at http://" + l.Addr())

	currentLock.Lock()
	current = l
	currentLock.Unlock()
}

// Restart picks up a changed metrics section of the config.
func Restart() {
	Stop()
	Start()
}

func Stop() {
	currentLock.Lock()
	l := current
	current = nil
	currentLock.Unlock()
	if l == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.Close(ctx); err != nil {
		logrus.Error("Error stopping metrics listener: ", err)
	}
}
