package main

import (
	"context"
	"encoding/base64"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
	"github.com/joshliu14/betweenmeandyusan/metrics"
	"github.com/joshliu14/betweenmeandyusan/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// proxyHandler serves API Gateway proxy events. The function is picked by the last
// segment of the path, so both /api/<name> and /.netlify/functions/<name> work.
type proxyHandler struct {
	env  *functions.Env
	conf *config.MainRepoConfig
}

func functionName(p string) string {
	return path.Base(strings.TrimRight(p, "/"))
}

func toInvocation(event events.APIGatewayProxyRequest) *invocation.Request {
	req := &invocation.Request{
		Method:       event.HTTPMethod,
		Path:         event.Path,
		Headers:      make(map[string]string),
		Query:        make(map[string]string),
		Body:         []byte(event.Body),
		IsBodyBase64: event.IsBase64Encoded,
	}
	for k, v := range event.MultiValueHeaders {
		req.Headers[k] = strings.Join(v, ",")
	}
	for k, v := range event.Headers {
		req.Headers[k] = v
	}
	for k, v := range event.MultiValueQueryStringParameters {
		if len(v) > 0 {
			req.Query[k] = v[len(v)-1]
		}
	}
	for k, v := range event.QueryStringParameters {
		req.Query[k] = v
	}
	return req
}

func logSafeQuery(query map[string]string) string {
	qs := make(url.Values, len(query))
	for k, v := range query {
		qs.Set(k, v)
	}
	return util.LogSafeQuery(qs)
}

func bodySize(req *invocation.Request) int64 {
	if req.IsBodyBase64 {
		return int64(base64.StdEncoding.DecodedLen(len(req.Body)))
	}
	return int64(len(req.Body))
}

func (h *proxyHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	name := functionName(event.Path)
	req := toInvocation(event)

	log := logrus.WithFields(logrus.Fields{
		"method":      req.Method,
		"resource":    req.Path,
		"contentType": req.Header("Content-Type"),
		"queryString": logSafeQuery(req.Query),
		"requestId":   event.RequestContext.RequestID,
		"remoteAddr":  event.RequestContext.Identity.SourceIP,
		"userAgent":   req.Header("User-Agent"),
	})
	rctx := rcontext.InitialWith(h.conf).WithContext(ctx).ReplaceLogger(log)

	metrics.HttpRequests.With(prometheus.Labels{"host": req.Header("Host"), "action": name, "method": req.Method}).Inc()

	var out *invocation.Response
	fn, ok := functions.Find(name)
	switch {
	case !ok:
		out = responses.Render(rctx, responses.NotFoundError("Not found"))
	case h.conf.General.MaxRequestBytes > 0 && bodySize(req) > h.conf.General.MaxRequestBytes:
		out = functions.Respond(rctx, fn, responses.BadRequest("Request body too large"))
	default:
		out = functions.Invoke(rctx, h.env, fn, req)
	}

	body, err := out.EncodedBody()
	if err != nil {
		rctx.Log.Error("Error reading response body: ", err)
		out = functions.Respond(rctx, fn, responses.InternalServerError(rctx, err, "Failed to fetch data"))
		body, _ = out.EncodedBody()
	}

	metrics.HttpResponses.With(prometheus.Labels{
		"host":       req.Header("Host"),
		"action":     name,
		"method":     req.Method,
		"statusCode": strconv.Itoa(out.StatusCode),
	}).Inc()

	headers := make(map[string]string, len(out.Headers))
	for k, v := range out.Headers {
		headers[k] = v
	}
	if out.IsBodyBase64 {
		// The gateway works out the length of the decoded body itself
		delete(headers, "Content-Length")
	}
	return events.APIGatewayProxyResponse{
		StatusCode:      out.StatusCode,
		Headers:         headers,
		Body:            body,
		IsBase64Encoded: out.IsBodyBase64,
	}, nil
}
