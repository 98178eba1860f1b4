package responses

import "io"

const ImmutableCacheControl = "public, max-age=31536000"

type EmptyResponse struct{}

// DownloadResponse streams stored media back to the client.
type DownloadResponse struct {
	ContentType       string
	Filename          string
	SizeBytes         int64
	Data              io.ReadCloser
	TargetDisposition string
	CacheControl      string
}

// CreatedResponse is rendered as JSON with a 201.
type CreatedResponse struct {
	Payload interface{}
}

// CachedResponse is rendered as JSON with a public Cache-Control of the given age.
type CachedResponse struct {
	Payload       interface{}
	MaxAgeSeconds int
}
