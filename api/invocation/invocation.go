// Package invocation holds the platform-neutral request and response passed to function
// handlers. The HTTP server and the serverless adapter both translate into these types.
package invocation

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var ErrBodyTooLarge = errors.New("request body too large")

type Request struct {
	Method       string
	Path         string
	Headers      map[string]string
	Query        map[string]string
	Body         []byte
	IsBodyBase64 bool
}

// Header looks up a request header without regard to case.
func (r *Request) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// QueryParam returns the query parameter and whether it was given at all.
func (r *Request) QueryParam(name string) (string, bool) {
	v, ok := r.Query[name]
	return v, ok
}

// RawBody undoes any transport base64 encoding of the body.
func (r *Request) RawBody() ([]byte, error) {
	if !r.IsBodyBase64 {
		return r.Body, nil
	}
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(r.Body)))
	n, err := base64.StdEncoding.Decode(decoded, bytes.TrimSpace(r.Body))
	if err != nil {
		return nil, err
	}
	return decoded[:n], nil
}

// FromHTTP reads an incoming HTTP request into a Request. Bodies over maxBytes are
// ErrBodyTooLarge; a maxBytes of zero or less means no limit.
func FromHTTP(r *http.Request, maxBytes int64) (*Request, error) {
	req := &Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: make(map[string]string),
		Query:   make(map[string]string),
	}
	for k, v := range r.Header {
		req.Headers[k] = strings.Join(v, ",")
	}
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			req.Query[k] = v[len(v)-1]
		}
	}

	if r.Body == nil {
		return req, nil
	}
	var reader io.Reader = r.Body
	if maxBytes > 0 {
		reader = io.LimitReader(r.Body, maxBytes+1)
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return nil, ErrBodyTooLarge
	}
	req.Body = b
	return req, nil
}

// Response is what a function produces. Exactly one of Body or Stream is used; a Stream
// is consumed and closed by whichever writer sends it.
type Response struct {
	StatusCode    int
	Headers       map[string]string
	Body          []byte
	Stream        io.ReadCloser
	ContentLength int64
	IsBodyBase64  bool
}

func NewResponse(statusCode int) *Response {
	return &Response{StatusCode: statusCode, Headers: make(map[string]string)}
}

func (r *Response) SetHeader(name string, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[name] = value
}

// Buffer drains the stream, if any, into Body.
func (r *Response) Buffer() error {
	if r.Stream == nil {
		return nil
	}
	defer r.Stream.Close()
	b, err := io.ReadAll(r.Stream)
	if err != nil {
		return err
	}
	r.Body = b
	r.Stream = nil
	if r.ContentLength > 0 && int64(len(b)) != r.ContentLength {
		return errors.New("mismatch transfer size: " + strconv.FormatInt(r.ContentLength, 10) + " expected, " + strconv.Itoa(len(b)) + " read")
	}
	return nil
}

// EncodedBody buffers the response and returns the body as text. Anything that isn't
// textual is base64 encoded and IsBodyBase64 is set.
func (r *Response) EncodedBody() (string, error) {
	if err := r.Buffer(); err != nil {
		return "", err
	}
	if isTextual(r.Headers["Content-Type"]) {
		r.IsBodyBase64 = false
		return string(r.Body), nil
	}
	r.IsBodyBase64 = true
	return base64.StdEncoding.EncodeToString(r.Body), nil
}

func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/") ||
		strings.HasPrefix(ct, "application/json")
}

// WriteTo sends the response over HTTP, streaming the body when there is a stream.
func (r *Response) WriteTo(w http.ResponseWriter) (int64, error) {
	headers := w.Header()
	for k, v := range r.Headers {
		headers.Set(k, v)
	}
	if r.Stream == nil {
		headers.Set("Content-Length", strconv.Itoa(len(r.Body)))
		w.WriteHeader(r.StatusCode)
		n, err := w.Write(r.Body)
		return int64(n), err
	}

	defer r.Stream.Close()
	if r.ContentLength > 0 {
		headers.Set("Content-Length", strconv.FormatInt(r.ContentLength, 10))
	}
	w.WriteHeader(r.StatusCode)
	written, err := io.Copy(w, r.Stream)
	if err != nil {
		return written, err
	}
	if r.ContentLength > 0 && written != r.ContentLength {
		return written, errors.New("mismatch transfer size: " + strconv.FormatInt(r.ContentLength, 10) + " expected, " + strconv.FormatInt(written, 10) + " sent")
	}
	return written, nil
}
