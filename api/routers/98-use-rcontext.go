package routers

import (
	"context"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
)

type GeneratorFn = func(r *http.Request, ctx rcontext.RequestContext) *invocation.Response

type ConfigFn = func() *config.MainRepoConfig

// RContextRouter builds the request context, runs the generator and writes what it made.
type RContextRouter struct {
	generatorFn GeneratorFn
	configFn    ConfigFn
	next        http.Handler
}

func NewRContextRouter(configFn ConfigFn, generatorFn GeneratorFn, next http.Handler) *RContextRouter {
	return &RContextRouter{generatorFn: generatorFn, configFn: configFn, next: next}
}

func (c *RContextRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := GetLogger(r)
	rctx := rcontext.RequestContext{
		Context: r.Context(),
		Log:     log,
		Config:  *c.configFn(),
		Request: r,
	}

	res := c.generatorFn(r, rctx)
	if res == nil {
		res = invocation.NewResponse(http.StatusOK)
	}

	r = r.WithContext(context.WithValue(r.Context(), common.ContextStatusCode, res.StatusCode))
	if _, err := res.WriteTo(w); err != nil {
		// Headers are already gone by now, so all we can do is report it
		log.Error("Error sending response: ", err)
		sentry.CaptureException(err)
	}

	if c.next != nil {
		c.next.ServeHTTP(w, r)
	}
}

func GetStatusCode(r *http.Request) int {
	x, ok := r.Context().Value(common.ContextStatusCode).(int)
	if !ok {
		return http.StatusOK
	}
	return x
}
