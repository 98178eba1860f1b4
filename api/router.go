package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/util"
	"github.com/sirupsen/logrus"
)

func buildPrimaryRouter() *mux.Router {
	router := mux.NewRouter()
	router.StrictSlash(false)
	router.NotFoundHandler = http.HandlerFunc(notFoundFn)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowedFn)
	router.Use(recoverMiddleware)
	return router
}

func writeJson(w http.ResponseWriter, statusCode int, res *responses.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	b, err := json.Marshal(res)
	if err != nil {
		sentry.CaptureException(fmt.Errorf("error preparing %T: %v", res, err))
		logrus.Errorf("error preparing %T: %v", res, err)
		return
	}
	_, _ = w.Write(b)
}

func methodNotAllowedFn(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusMethodNotAllowed, responses.MethodNotAllowed())
}

func notFoundFn(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusNotFound, responses.NotFoundError("Not found"))
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if i := recover(); i != nil {
				panicFn(w, r, i)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func panicFn(w http.ResponseWriter, r *http.Request, i interface{}) {
	logrus.Errorf("Panic received on %s %s?%s: %v", r.Method, r.URL.Path, util.GetLogSafeQueryString(r), i)

	//goland:noinspection GoTypeAssertionOnErrors
	if e, ok := i.(error); ok {
		sentry.CaptureException(e)
	} else {
		sentry.CaptureMessage(fmt.Sprintf("Unknown panic received: %T %+v", i, i))
	}

	writeJson(w, http.StatusInternalServerError, &responses.ErrorResponse{
		Message: "Internal Server Error",
		Detail:  "Failed to process request",
	})
}
