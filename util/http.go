package util

import (
	"net/http"
	"net/url"
)

const maxLoggedQueryValue = 128

// GetLogSafeQueryString returns the query string with overly long values cut down, so search
// terms can't flood the logs.
func GetLogSafeQueryString(r *http.Request) string {
	return LogSafeQuery(r.URL.Query())
}

func LogSafeQuery(qs url.Values) string {
	safe := make(url.Values, len(qs))
	for k, vals := range qs {
		for _, v := range vals {
			if len(v) > maxLoggedQueryValue {
				v = v[:maxLoggedQueryValue] + "..."
			}
			safe.Add(k, v)
		}
	}
	return safe.Encode()
}
