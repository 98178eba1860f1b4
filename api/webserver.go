package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/api/routers"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/limits"
	"github.com/sirupsen/logrus"
)

var srv *http.Server
var srvLock = &sync.Mutex{}
var env *functions.Env
var waitGroup = &sync.WaitGroup{}

// NewHandler builds the full HTTP handler for a fixed config: routes, rate limiting and sentry.
func NewHandler(e *functions.Env, conf *config.MainRepoConfig) http.Handler {
	return newHandler(e, conf, func() *config.MainRepoConfig {
		return conf
	})
}

func newHandler(e *functions.Env, conf *config.MainRepoConfig, configFn func() *config.MainRepoConfig) http.Handler {
	handler := buildRoutes(e, configFn)
	if conf.RateLimit.Enabled {
		logrus.Debug("Enabling rate limit")
	}
	handler = limits.Wrap(conf.RateLimit, handler)
	handler = routers.NewRemoteAddrRouter(conf.General.TrustAnyForward, conf.General.TrustedProxies, handler)

	// Note: we bind Sentry here to ensure we capture *everything*
	sentryHandler := sentryhttp.New(sentryhttp.Options{})
	return sentryHandler.Handle(handler)
}

// Init starts the web server. The wait group is released once the server is stopped.
func Init(e *functions.Env) *sync.WaitGroup {
	env = e
	waitGroup.Add(1)
	start()
	return waitGroup
}

func start() {
	address := net.JoinHostPort(config.Get().General.BindAddress, strconv.Itoa(config.Get().General.Port))
	server := &http.Server{Addr: address, Handler: newHandler(env, config.Get(), config.Get)}

	srvLock.Lock()
	srv = server
	srvLock.Unlock()

	go func() {
		//goland:noinspection HttpUrlsUsage
		logrus.WithField("address", address).Info("Started up. Listening at http://" + address)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			logrus.Fatal(err)
		}

		// Only notify the main thread that we're done if a reload didn't replace us
		srvLock.Lock()
		defer srvLock.Unlock()
		if srv == server {
			srv = nil
			waitGroup.Done()
		}
	}()
}

func Reload() {
	srvLock.Lock()
	old := srv
	srv = nil
	srvLock.Unlock()
	if old == nil {
		return
	}

	shutdown(old)
	start()
}

func Stop() {
	srvLock.Lock()
	current := srv
	srvLock.Unlock()
	shutdown(current)
}

func shutdown(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Error("Error stopping web server: ", err)
	}
}
