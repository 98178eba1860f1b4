package responses

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alioygur/is"
	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/api/invocation"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
)

const jsonContentType = "application/json"

// Render turns whatever a function returned into a Response. Anything that isn't one of the
// known response types is sent as JSON with a 200.
func Render(ctx rcontext.RequestContext, res interface{}) *invocation.Response {
	if res == nil {
		res = &EmptyResponse{}
	}
	if errRes, isError := res.(ErrorResponse); isError {
		res = &errRes
	}

	switch r := res.(type) {
	case *EmptyResponse:
		ctx.Log.Debug("Replying with an empty response")
		return invocation.NewResponse(http.StatusOK)
	case *DownloadResponse:
		ctx.Log.Infof("Replying with download: %s (%d bytes, %s)", r.Filename, r.SizeBytes, r.ContentType)
		return renderDownload(ctx, r)
	case *ErrorResponse:
		ctx.Log.Infof("Replying with error: %s (%s)", r.Message, r.InternalCode)
		return renderJson(ctx, StatusCodeFor(r), r)
	case *CreatedResponse:
		ctx.Log.Infof("Replying with result: %T", r.Payload)
		return renderJson(ctx, http.StatusCreated, r.Payload)
	case *CachedResponse:
		ctx.Log.Infof("Replying with result: %T", r.Payload)
		out := renderJson(ctx, http.StatusOK, r.Payload)
		if out.StatusCode == http.StatusOK {
			out.SetHeader("Cache-Control", "public, max-age="+strconv.Itoa(r.MaxAgeSeconds))
		}
		return out
	}

	ctx.Log.Infof("Replying with result: %T", res)
	return renderJson(ctx, http.StatusOK, res)
}

// StatusCodeFor picks the HTTP status for an error from its internal code.
func StatusCodeFor(errRes *ErrorResponse) int {
	switch errRes.InternalCode {
	case common.ErrCodeBadRequest:
		return http.StatusBadRequest
	case common.ErrCodeUnsupportedMediaType:
		return http.StatusBadRequest
	case common.ErrCodeMediaTooLarge:
		return http.StatusBadRequest
	case common.ErrCodeNotFound:
		return http.StatusNotFound
	case common.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case common.ErrCodeConflict:
		return http.StatusConflict
	case common.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default: // Treat as unknown (a generic server error)
		return http.StatusInternalServerError
	}
}

func renderJson(ctx rcontext.RequestContext, statusCode int, payload interface{}) *invocation.Response {
	b, err := json.Marshal(payload)
	if err != nil {
		ctx.Log.Error("Failed to encode response: ", err)
		sentry.CaptureException(err)
		statusCode = http.StatusInternalServerError
		b, _ = json.Marshal(&ErrorResponse{Message: "Internal Server Error", InternalCode: common.ErrCodeUnknown})
	}
	out := invocation.NewResponse(statusCode)
	out.SetHeader("Content-Type", jsonContentType)
	out.Body = b
	return out
}

func renderDownload(ctx rcontext.RequestContext, r *DownloadResponse) *invocation.Response {
	out := invocation.NewResponse(http.StatusOK)
	out.Stream = r.Data
	out.ContentLength = r.SizeBytes
	out.SetHeader("Content-Type", cleanContentType(ctx, r.ContentType))
	if r.SizeBytes >= 0 {
		out.SetHeader("Content-Length", strconv.FormatInt(r.SizeBytes, 10))
	}

	cacheControl := r.CacheControl
	if cacheControl == "" {
		cacheControl = ImmutableCacheControl
	}
	out.SetHeader("Cache-Control", cacheControl)

	disposition := r.TargetDisposition
	if disposition == "" {
		disposition = "inline"
	}
	out.SetHeader("Content-Disposition", ContentDisposition(disposition, r.Filename))
	return out
}

// ContentDisposition formats the header, switching to the RFC 5987 form for non-ASCII names.
func ContentDisposition(disposition string, filename string) string {
	if filename == "" {
		return disposition
	}
	if is.ASCII(filename) {
		escaped := strings.ReplaceAll(filename, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return disposition + `; filename="` + escaped + `"`
	}
	return disposition + "; filename*=utf-8''" + url.PathEscape(filename)
}

func cleanContentType(ctx rcontext.RequestContext, contentType string) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		ctx.Log.Warn("Failed to parse content type for media on reply: ", err)
		return contentType
	}
	if !strings.HasPrefix(mediaType, "text/") && mediaType != jsonContentType {
		delete(params, "charset")
	}
	return mime.FormatMediaType(mediaType, params)
}
