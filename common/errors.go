package common

import (
	"errors"
)

var ErrBadRequest = errors.New("bad request")
var ErrInvalidCategory = errors.New("type must be photo or video")
var ErrInvalidMediaId = errors.New("invalid file ID")
var ErrUnsupportedMediaType = errors.New("unsupported media type")
var ErrMediaTooLarge = errors.New("media too large")
var ErrMediaNotFound = errors.New("media not found")
var ErrStoryNotFound = errors.New("story not found")
var ErrConflict = errors.New("conflicting record already exists")
