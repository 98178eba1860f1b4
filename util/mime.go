package util

import (
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DetectMimeType sniffs the content type from the leading bytes of data.
func DetectMimeType(data []byte) string {
	return mimetype.Detect(data).String()
}

// SameMediaType compares two content types without parameters, case-insensitively. Aliases
// that mimetype knows about (image/jpg for image/jpeg and the like) are treated as equal.
func SameMediaType(declared string, detected string) bool {
	a := baseMediaType(declared)
	b := baseMediaType(detected)
	if a == b {
		return true
	}
	if m := mimetype.Lookup(b); m != nil && m.Is(a) {
		return true
	}
	return a == "image/jpg" && b == "image/jpeg"
}

func baseMediaType(ct string) string {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.TrimSpace(strings.Split(ct, ";")[0])
	}
	return strings.ToLower(mt)
}
