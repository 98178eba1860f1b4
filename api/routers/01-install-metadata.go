package routers

import (
	"context"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/util"
	"github.com/sirupsen/logrus"
)

type startTimeKey struct{}

type RequestCounter struct {
	lastId uint64
}

func (c *RequestCounter) NextId() string {
	return "REQ-" + strconv.FormatUint(atomic.AddUint64(&c.lastId, 1)-1, 10)
}

type InstallMetadataRouter struct {
	next       http.Handler
	actionName string
	counter    *RequestCounter
}

func NewInstallMetadataRouter(actionName string, counter *RequestCounter, next http.Handler) *InstallMetadataRouter {
	return &InstallMetadataRouter{
		next:       next,
		actionName: actionName,
		counter:    counter,
	}
}

func (i *InstallMetadataRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestId := i.counter.NextId()
	logger := logrus.WithFields(logrus.Fields{
		"method":        r.Method,
		"host":          r.Host,
		"resource":      r.URL.Path,
		"contentType":   r.Header.Get("Content-Type"),
		"contentLength": r.ContentLength,
		"queryString":   util.GetLogSafeQueryString(r),
		"requestId":     requestId,
		"remoteAddr":    r.RemoteAddr,
		"userAgent":     r.UserAgent(),
	})

	ctx := r.Context()
	ctx = context.WithValue(ctx, common.ContextRequestId, requestId)
	ctx = context.WithValue(ctx, common.ContextAction, i.actionName)
	ctx = context.WithValue(ctx, common.ContextLogger, logger)
	ctx = context.WithValue(ctx, startTimeKey{}, time.Now())
	r = r.WithContext(ctx)

	if i.next != nil {
		i.next.ServeHTTP(w, r)
	}
}

func GetActionName(r *http.Request) string {
	x, ok := r.Context().Value(common.ContextAction).(string)
	if !ok {
		return "<UNKNOWN>"
	}
	return x
}

func GetRequestId(r *http.Request) string {
	x, ok := r.Context().Value(common.ContextRequestId).(string)
	if !ok {
		return ""
	}
	return x
}

func GetLogger(r *http.Request) *logrus.Entry {
	x, ok := r.Context().Value(common.ContextLogger).(*logrus.Entry)
	if !ok {
		return logrus.WithField("resource", r.URL.Path)
	}
	return x
}

func getStartTime(r *http.Request) (time.Time, bool) {
	x, ok := r.Context().Value(startTimeKey{}).(time.Time)
	return x, ok
}
