package common

type StoriesContextKey string

const (
	ContextLogger     StoriesContextKey = "stories.logger"
	ContextAction     StoriesContextKey = "stories.action"
	ContextRequestId  StoriesContextKey = "stories.request_id"
	ContextStatusCode StoriesContextKey = "stories.status_code"
)
