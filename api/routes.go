package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/api/routers"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/common/version"
	"github.com/sirupsen/logrus"
)

const PrefixApi = "/api"
const PrefixNetlify = "/.netlify/functions"

type HealthzResponse struct {
	OK      bool   `json:"ok"`
	Version string `json:"version"`
}

func buildRoutes(env *functions.Env, configFn routers.ConfigFn) http.Handler {
	counter := &routers.RequestCounter{}
	router := buildPrimaryRouter()

	// Every method reaches the function, which answers OPTIONS and rejects the rest itself
	for _, fn := range functions.All() {
		route := makeRoute(functionGenerator(env, fn), fn.Name, configFn, counter)
		register(router, fn.Name, route)
	}

	healthzRoute := makeRoute(healthz, "healthz", configFn, counter)
	router.Handle("/healthz", healthzRoute).Methods(http.MethodGet, http.MethodHead)

	return router
}

func makeRoute(generator routers.GeneratorFn, name string, configFn routers.ConfigFn, counter *routers.RequestCounter) http.Handler {
	return routers.NewInstallMetadataRouter(name, counter,
		routers.NewResponseHeadersRouter(routers.StoryHeaders,
			routers.NewMetricsRequestRouter(
				routers.NewRContextRouter(configFn, generator, routers.NewMetricsResponseRouter(nil)),
			),
		))
}

func register(router *mux.Router, name string, handler http.Handler) {
	for _, prefix := range []string{PrefixApi, PrefixNetlify} {
		path := prefix + "/" + name
		router.Handle(path, handler)
		router.Handle(path+"/", handler)
		logrus.Debug("Registering route: ", path)
	}
}

func functionGenerator(env *functions.Env, fn functions.Function) routers.GeneratorFn {
	return func(r *http.Request, ctx rcontext.RequestContext) *invocation.Response {
		req, err := invocation.FromHTTP(r, ctx.Config.General.MaxRequestBytes)
		if err != nil {
			if errors.Is(err, invocation.ErrBodyTooLarge) {
				return functions.Respond(ctx, fn, responses.BadRequest("Request body too large"))
			}
			ctx.Log.Warn("Error reading request body: ", err)
			return functions.Respond(ctx, fn, responses.BadRequest("Error reading request body"))
		}
		return functions.Invoke(ctx, env, fn, req)
	}
}

func healthz(r *http.Request, ctx rcontext.RequestContext) *invocation.Response {
	return responses.Render(ctx, &HealthzResponse{OK: true, Version: version.Release()})
}
