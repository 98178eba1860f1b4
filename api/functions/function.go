// Package functions holds the request handlers of the site. Each one is hosted both by the
// HTTP server and by the serverless adapter, through the invocation types.
package functions

import (
	"net/http"
	"strings"

	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/database"
	"github.com/joshliu14/betweenmeandyusan/datastores"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/util"
	"github.com/prometheus/client_golang/prometheus"
)

// Env is what the handlers work against. It is built once at startup.
type Env struct {
	Datastore datastores.Datastore
	Stories   database.StoriesTable
}

type Handler = func(ctx rcontext.RequestContext, env *Env, req *invocation.Request) interface{}

type Function struct {
	Name    string
	Method  string
	Handler Handler
}

var (
	UploadMedia = Function{Name: "upload-media", Method: http.MethodPost, Handler: uploadMedia}
	GetMedia    = Function{Name: "get-media", Method: http.MethodGet, Handler: getMedia}
	GetVeterans = Function{Name: "get-veterans", Method: http.MethodGet, Handler: getVeterans}
	PutVeterans = Function{Name: "put-veterans", Method: http.MethodPost, Handler: putVeterans}
)

func All() []Function {
	return []Function{UploadMedia, GetMedia, GetVeterans, PutVeterans}
}

func Find(name string) (Function, bool) {
	for _, fn := range All() {
		if fn.Name == name {
			return fn, true
		}
	}
	return Function{}, false
}

// Invoke runs fn for the request. CORS preflights and wrong methods are answered here,
// and a panicking handler becomes a 500.
func Invoke(ctx rcontext.RequestContext, env *Env, fn Function, req *invocation.Request) *invocation.Response {
	return Respond(ctx, fn, run(ctx, env, fn, req))
}

// Respond renders res as fn's reply, with fn's CORS headers.
func Respond(ctx rcontext.RequestContext, fn Function, res interface{}) *invocation.Response {
	out := responses.Render(ctx, res)
	out.SetHeader("Access-Control-Allow-Origin", "*")
	out.SetHeader("Access-Control-Allow-Headers", "Content-Type")
	out.SetHeader("Access-Control-Allow-Methods", fn.Method+", OPTIONS")
	return out
}

func run(ctx rcontext.RequestContext, env *Env, fn Function, req *invocation.Request) (res interface{}) {
	method := strings.ToUpper(req.Method)
	if method == http.MethodOptions {
		return &responses.EmptyResponse{}
	}
	if method != fn.Method {
		metrics.InvalidHttpRequests.With(prometheus.Labels{"action": fn.Name, "method": method}).Inc()
		return responses.MethodNotAllowed()
	}

	defer func() {
		if err := recover(); err != nil {
			res = responses.InternalServerError(ctx, util.RecoveredError(err), "Failed to process request")
		}
	}()
	return fn.Handler(ctx, env, req)
}
