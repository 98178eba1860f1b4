package limits

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/joshliu14/betweenmeandyusan/api/responses"
	"github.com/joshliu14/betweenmeandyusan/common/config"
)

var requestLimiter *limiter.Limiter
var limiterLock = &sync.Mutex{}

func init() {
	requestLimiter = newLimiter()
}

func newLimiter() *limiter.Limiter {
	l := tollbooth.NewLimiter(0, nil)
	// Forwarded headers are resolved upstream against the trusted proxy list
	l.SetIPLookups([]string{"RemoteAddr"})
	l.SetTokenBucketExpirationTTL(time.Hour)

	b, _ := json.Marshal(responses.RateLimitReached())
	l.SetMessage(string(b))
	l.SetMessageContentType("application/json")
	return l
}

// GetRequestLimiter returns the shared limiter with the given settings applied.
func GetRequestLimiter(conf config.RateLimitConfig) *limiter.Limiter {
	limiterLock.Lock()
	defer limiterLock.Unlock()

	requestLimiter.SetBurst(conf.BurstCount)
	requestLimiter.SetMax(conf.RequestsPerSecond)
	return requestLimiter
}

// Wrap rate limits the handler when the config enables it, and passes it through otherwise.
func Wrap(conf config.RateLimitConfig, next http.Handler) http.Handler {
	if !conf.Enabled {
		return next
	}
	return tollbooth.LimitHandler(GetRequestLimiter(conf), next)
}
