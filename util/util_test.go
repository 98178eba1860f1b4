package util

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobAnyMatch(t *testing.T) {
	allowed := []string{"image/jpeg", "image/png"}
	assert.True(t, GlobAnyMatch("image/png", allowed))
	assert.False(t, GlobAnyMatch("image/gif", allowed))
	assert.False(t, GlobAnyMatch("image/pngx", allowed))
	assert.True(t, GlobAnyMatch("video/anything", []string{"video/*"}))
	assert.False(t, GlobAnyMatch("image/png", nil))
}

func TestParseLeadingInt(t *testing.T) {
	cases := map[string]struct {
		val int
		ok  bool
	}{
		"42":        {42, true},
		" 42 years": {42, true},
		"-3":        {-3, true},
		"+7":        {7, true},
		"42.9":      {42, true},
		"abc":       {0, false},
		"":          {0, false},
		"-":         {0, false},
	}
	for in, expected := range cases {
		val, ok := ParseLeadingInt(in)
		assert.Equal(t, expected.ok, ok, in)
		assert.Equal(t, expected.val, val, in)
	}
}

func TestDetectMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", DetectMimeType(png))
	assert.Equal(t, "application/octet-stream", DetectMimeType([]byte{0x00, 0x01, 0x02}))
}

func TestSameMediaType(t *testing.T) {
	assert.True(t, SameMediaType("image/PNG", "image/png"))
	assert.True(t, SameMediaType("image/jpg", "image/jpeg"))
	assert.True(t, SameMediaType("text/plain; charset=utf-8", "text/plain"))
	assert.False(t, SameMediaType("image/png", "video/mp4"))
}

func TestLogSafeQueryString(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/get-veterans?q="+strings.Repeat("a", 500)+"&type=photo", nil)
	qs := GetLogSafeQueryString(r)
	assert.Contains(t, qs, "type=photo")
	assert.Less(t, len(qs), 200)
}

func TestRecoveredError(t *testing.T) {
	assert.NoError(t, RecoveredError(nil))
	assert.EqualError(t, RecoveredError("boom"), "boom")
	assert.EqualError(t, RecoveredError(42), "panic: 42")

	e := errors.New("x")
	wrapped := RecoveredError(e)
	assert.ErrorIs(t, wrapped, e)
	assert.EqualError(t, wrapped, "x")
	assert.Contains(t, fmt.Sprintf("%+v", wrapped), "TestRecoveredError")
}
