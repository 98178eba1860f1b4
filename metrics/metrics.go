package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_http_requests_total",
}, []string{"host", "action", "method"})
var InvalidHttpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_invalid_http_requests_total",
}, []string{"action", "method"})
var HttpResponses = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_http_responses_total",
}, []string{"host", "action", "method", "statusCode"})
var HttpResponseTime = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Name: "stories_http_response_time_seconds",
}, []string{"host", "action", "method"})
var MediaUploaded = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_media_uploaded_total",
}, []string{"category"})
var MediaUploadedBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_media_uploaded_bytes_total",
}, []string{"category"})
var MediaRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_media_rejected_total",
}, []string{"category", "reason"})
var MediaDownloaded = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_media_downloaded_total",
}, []string{"category"})
var StoriesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "stories_submitted_total",
})
var StorySearches = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_searches_total",
}, []string{"filtered"})
var DatastoreOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_datastore_operations_total",
}, []string{"datastore", "operation"})
var DatabaseConnects = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "stories_database_connects_total",
}, []string{"result"})

func init() {
	prometheus.MustRegister(HttpRequests)
	prometheus.MustRegister(InvalidHttpRequests)
	prometheus.MustRegister(HttpResponses)
	prometheus.MustRegister(HttpResponseTime)
	prometheus.MustRegister(MediaUploaded)
	prometheus.MustRegister(MediaUploadedBytes)
	prometheus.MustRegister(MediaRejected)
	prometheus.MustRegister(MediaDownloaded)
	prometheus.MustRegister(StoriesSubmitted)
	prometheus.MustRegister(StorySearches)
	prometheus.MustRegister(DatastoreOperations)
	prometheus.MustRegister(DatabaseConnects)
}
