package common

const ErrCodeBadRequest = "M_BAD_REQUEST"
const ErrCodeUnsupportedMediaType = "M_UNSUPPORTED_MEDIA_TYPE"
const ErrCodeMediaTooLarge = "M_MEDIA_TOO_LARGE"
const ErrCodeNotFound = "M_NOT_FOUND"
const ErrCodeConflict = "M_CONFLICT"
const ErrCodeMethodNotAllowed = "M_METHOD_NOT_ALLOWED"
const ErrCodeRateLimitExceeded = "M_LIMIT_EXCEEDED"
const ErrCodeUnknown = "M_UNKNOWN"
