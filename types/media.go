package types

import (
	"net/url"
	"strings"
	"time"

	"github.com/joshliu14/betweenmeandyusan/common"
)

// StoredObject describes a piece of uploaded media. Objects are written once and never changed.
type StoredObject struct {
	Id          string          `json:"id"`
	Filename    string          `json:"filename"`
	ContentType string          `json:"contentType"`
	SizeBytes   int64           `json:"size"`
	Category    common.Category `json:"type"`
	UploadedAt  time.Time       `json:"uploadDate"`
}

// ObjectMetadata is what gets stored alongside the bytes of an object.
type ObjectMetadata struct {
	ContentType string
	UploadDate  time.Time
	FileSize    int64
	Category    common.Category
}

// MediaUrl builds the retrieval url for an object, relative to the media endpoint.
func MediaUrl(endpoint string, id string, category common.Category) string {
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + "media=" + url.QueryEscape(id) + "&type=" + url.QueryEscape(string(category))
}
