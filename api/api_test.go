package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joshliu14/betweenmeandyusan/api/functions"
	"github.com/joshliu14/betweenmeandyusan/common/config"
	"github.com/joshliu14/betweenmeandyusan/database"
	"github.com/joshliu14/betweenmeandyusan/datastores"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const boundary = "xYzZY"

func testServer(t *testing.T, mutate func(c *config.MainRepoConfig)) (*httptest.Server, *datastores.MemoryDatastore) {
	conf := config.NewDefaultMainConfig()
	conf.RateLimit.Enabled = false
	if mutate != nil {
		mutate(&conf)
	}
	ds := datastores.NewMemory()
	env := &functions.Env{Datastore: ds, Stories: database.NewMemoryStoriesTable()}
	srv := httptest.NewServer(NewHandler(env, &conf))
	t.Cleanup(srv.Close)
	return srv, ds
}

func jpegUpload() []byte {
	b := bytes.NewBuffer(nil)
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString(`Content-Disposition: form-data; name="type"` + "\r\n\r\n")
	b.WriteString("photo\r\n")
	b.WriteString("--" + boundary + "\r\n")
	b.WriteString(`Content-Disposition: form-data; name="file"; filename="tiny.jpg"` + "\r\n")
	b.WriteString("Content-Type: image/jpeg\r\n\r\n")
	b.Write([]byte{0xFF, 0xD8, 0xFF})
	b.WriteString("\r\n--" + boundary + "--\r\n")
	return b.Bytes()
}

func readJson(t *testing.T, res *http.Response) map[string]interface{} {
	defer res.Body.Close()
	m := make(map[string]interface{})
	require.NoError(t, json.NewDecoder(res.Body).Decode(&m))
	return m
}

func TestUploadAndRetrieveOverHttp(t *testing.T) {
	srv, ds := testServer(t, nil)

	for _, prefix := range []string{PrefixApi, PrefixNetlify} {
		res, err := http.Post(srv.URL+prefix+"/upload-media", "multipart/form-data; boundary="+boundary, bytes.NewReader(jpegUpload()))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
		body := readJson(t, res)
		url := body["url"].(string)
		assert.True(t, strings.HasPrefix(url, "/api/get-veterans?media="))

		res, err = http.Get(srv.URL + url)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "image/jpeg", res.Header.Get("Content-Type"))
		assert.Equal(t, "public, max-age=31536000", res.Header.Get("Cache-Control"))
		b, err := io.ReadAll(res.Body)
		res.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, b)
	}
	assert.Equal(t, 2, ds.Count())
}

func TestMissingBoundaryWritesNothing(t *testing.T) {
	srv, ds := testServer(t, nil)
	res, err := http.Post(srv.URL+"/api/upload-media", "multipart/form-data", bytes.NewReader(jpegUpload()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Missing boundary in multipart form data", readJson(t, res)["error"])
	assert.Equal(t, 0, ds.Count())
}

func TestRequestTooLarge(t *testing.T) {
	srv, ds := testServer(t, func(c *config.MainRepoConfig) {
		c.General.MaxRequestBytes = 16
	})
	res, err := http.Post(srv.URL+"/api/upload-media", "multipart/form-data; boundary="+boundary, bytes.NewReader(jpegUpload()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "Request body too large", readJson(t, res)["error"])
	assert.Equal(t, 0, ds.Count())
}

func TestPreflightAndMethods(t *testing.T) {
	srv, _ := testServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/put-veterans", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "POST, OPTIONS", res.Header.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", res.Header.Get("Access-Control-Allow-Headers"))

	req, err = http.NewRequest(http.MethodPut, srv.URL+"/api/get-veterans", nil)
	require.NoError(t, err)
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	assert.Equal(t, "Method Not Allowed", readJson(t, res)["error"])
}

func TestStoryOverHttp(t *testing.T) {
	srv, _ := testServer(t, nil)

	story := `{"name":"Sam","location":"Guam","serviceYears":"1968","branch":"Coast Guard","story":"Typhoon season","consent":"yes"}`
	res, err := http.Post(srv.URL+"/.netlify/functions/put-veterans", "application/json", strings.NewReader(story))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	id := readJson(t, res)["id"].(string)

	res, err = http.Get(srv.URL + "/api/get-veterans?id=" + id)
	require.NoError(t, err)
	assert.Equal(t, "public, max-age=300", res.Header.Get("Cache-Control"))
	assert.Equal(t, "Typhoon season", readJson(t, res)["story"])

	res, err = http.Get(srv.URL + "/api/get-veterans?q=typhoon")
	require.NoError(t, err)
	defer res.Body.Close()
	list := make([]map[string]interface{}, 0)
	require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
	assert.Len(t, list, 1)
}

func TestHealthzAndNotFound(t *testing.T) {
	srv, _ := testServer(t, nil)

	res, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body := readJson(t, res)
	assert.Equal(t, true, body["ok"])
	assert.Contains(t, body["version"], "stories@")

	res, err = http.Post(srv.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
	res.Body.Close()

	res, err = http.Get(srv.URL + "/api/delete-veterans")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Not found", readJson(t, res)["error"])
}

func TestRecoverMiddleware(t *testing.T) {
	h := recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("oh no")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/get-veterans", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error","message":"Failed to process request"}`, w.Body.String())
}

func TestRateLimitKeysOnResolvedClient(t *testing.T) {
	get := func(srv string, forwarded string) int {
		req, err := http.NewRequest(http.MethodGet, srv+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", forwarded)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = res.Body.Close()
		return res.StatusCode
	}
	limited := func(c *config.MainRepoConfig) {
		c.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, BurstCount: 1}
	}

	// The test client connects over loopback, which the defaults trust as a proxy
	trusting, _ := testServer(t, limited)
	assert.Equal(t, http.StatusOK, get(trusting.URL, "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, get(trusting.URL, "198.51.100.1"))
	assert.Equal(t, http.StatusOK, get(trusting.URL, "198.51.100.2"))

	untrusting, _ := testServer(t, func(c *config.MainRepoConfig) {
		limited(c)
		c.General.TrustedProxies = nil
	})
	assert.Equal(t, http.StatusOK, get(untrusting.URL, "198.51.100.3"))
	assert.Equal(t, http.StatusTooManyRequests, get(untrusting.URL, "198.51.100.4"))
}
