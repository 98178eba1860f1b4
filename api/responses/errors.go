package responses

import (
	"github.com/getsentry/sentry-go"
	"github.com/joshliu14/betweenmeandyusan/common"
	"github.com/joshliu14/betweenmeandyusan/common/rcontext"
)

type ErrorResponse struct {
	Message      string `json:"error"`
	Detail       string `json:"message,omitempty"`
	InternalCode string `json:"-"`
}

// InternalServerError reports err and builds a 500 envelope. The error text is only shown to
// the client when the config exposes errors; otherwise the generic message is.
func InternalServerError(ctx rcontext.RequestContext, err error, genericMessage string) *ErrorResponse {
	ctx.Log.Error("Unexpected error: ", err)
	sentry.CaptureException(err)

	detail := genericMessage
	if ctx.Config.General.ExposeErrors && err != nil {
		detail = err.Error()
	}
	return &ErrorResponse{"Internal Server Error", detail, common.ErrCodeUnknown}
}

func MethodNotAllowed() *ErrorResponse {
	return &ErrorResponse{"Method Not Allowed", "", common.ErrCodeMethodNotAllowed}
}

func RateLimitReached() *ErrorResponse {
	return &ErrorResponse{"Rate Limited", "", common.ErrCodeRateLimitExceeded}
}

func NotFoundError(message string) *ErrorResponse {
	return &ErrorResponse{message, "", common.ErrCodeNotFound}
}

func BadRequest(message string) *ErrorResponse {
	return &ErrorResponse{message, "", common.ErrCodeBadRequest}
}

func UnsupportedMediaType(message string) *ErrorResponse {
	return &ErrorResponse{message, "", common.ErrCodeUnsupportedMediaType}
}

func MediaTooLarge(message string) *ErrorResponse {
	return &ErrorResponse{message, "", common.ErrCodeMediaTooLarge}
}

func Conflict(message string) *ErrorResponse {
	return &ErrorResponse{message, "", common.ErrCodeConflict}
}
