// Package formdata decodes multipart/form-data bodies that have already been read into memory.
//
// The decoder is lenient: parts it cannot make sense of are skipped rather than failing the
// whole body, and both CRLF and bare LF line endings are accepted around part headers. File
// contents are returned byte-for-byte.
package formdata

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
)

const DefaultContentType = "application/octet-stream"

var ErrNotMultipart = errors.New("content type is not multipart/form-data")
var ErrNoBoundary = errors.New("missing boundary in multipart form data")

type Field struct {
	Name        string
	Value       string
	IsFile      bool
	FileName    string
	ContentType string
	Data        []byte
}

// Form holds the decoded fields by name. When a name repeats, the last part wins.
type Form map[string]*Field

// Value returns the trimmed text value of a non-file field. The boolean distinguishes an
// absent field from one that was sent empty.
func (f Form) Value(name string) (string, bool) {
	field, ok := f[name]
	if !ok || field.IsFile {
		return "", false
	}
	return field.Value, true
}

func (f Form) File(name string) (*Field, bool) {
	field, ok := f[name]
	if !ok || !field.IsFile {
		return nil, false
	}
	return field, true
}

var (
	crlf     = []byte("\r\n")
	lf       = []byte("\n")
	crlfCrlf = []byte("\r\n\r\n")
	lfLf     = []byte("\n\n")
	dashes   = []byte("--")
)

// Decode splits body on the given boundary and returns every part that carries a
// Content-Disposition name. A body without any recognisable part decodes to an empty form.
func Decode(body []byte, boundary string) Form {
	form := make(Form)
	if boundary == "" {
		return form
	}

	delimiter := append([]byte("--"), boundary...)
	segments := bytes.Split(body, delimiter)

	// segments[0] is the preamble
	for _, segment := range segments[1:] {
		if bytes.HasPrefix(segment, dashes) {
			// close delimiter, the rest is epilogue
			break
		}
		field, ok := decodePart(segment)
		if !ok {
			continue
		}
		form[field.Name] = field
	}

	return form
}

func decodePart(segment []byte) (*Field, bool) {
	segment = trimLeadingLine(segment)

	headerBlock, content, ok := splitHeaders(segment)
	if !ok {
		return nil, false
	}
	headers := parseHeaders(headerBlock)

	disposition, ok := headers["content-disposition"]
	if !ok {
		return nil, false
	}
	_, params := parseDisposition(disposition)
	name, ok := params["name"]
	if !ok || name == "" {
		return nil, false
	}

	content = trimTrailingLine(content)

	field := &Field{
		Name:        name,
		ContentType: strings.TrimSpace(headers["content-type"]),
	}
	if field.ContentType == "" {
		field.ContentType = DefaultContentType
	}

	fileName, isFile := params["filename"]
	if extName, ok := params["filename*"]; ok {
		fileName = decodeExtendedValue(extName)
		isFile = true
	}
	if isFile {
		field.IsFile = true
		field.FileName = fileName
		field.Data = append(make([]byte, 0, len(content)), content...)
	} else {
		field.Value = strings.TrimSpace(strings.ToValidUTF8(string(content), "\uFFFD"))
	}

	return field, true
}

// trimLeadingLine drops the rest of the delimiter line: optional transport padding and its line break.
func trimLeadingLine(segment []byte) []byte {
	s := bytes.TrimLeft(segment, " \t")
	if bytes.HasPrefix(s, crlf) {
		return s[len(crlf):]
	}
	if bytes.HasPrefix(s, lf) {
		return s[len(lf):]
	}
	return segment
}

// trimTrailingLine drops the line break that belongs to the next delimiter.
func trimTrailingLine(content []byte) []byte {
	if bytes.HasSuffix(content, crlf) {
		return content[:len(content)-len(crlf)]
	}
	if bytes.HasSuffix(content, lf) {
		return content[:len(content)-len(lf)]
	}
	return content
}

func splitHeaders(segment []byte) ([]byte, []byte, bool) {
	if bytes.HasPrefix(segment, crlf) || bytes.HasPrefix(segment, lf) {
		// no headers at all
		return nil, nil, false
	}
	end := bytes.Index(segment, crlfCrlf)
	sepLen := len(crlfCrlf)
	if lfEnd := bytes.Index(segment, lfLf); lfEnd >= 0 && (end < 0 || lfEnd < end) {
		end = lfEnd
		sepLen = len(lfLf)
	}
	if end < 0 {
		return nil, nil, false
	}
	return segment[:end], segment[end+sepLen:], true
}

// parseHeaders returns the part headers keyed by lower-cased name. Folded lines are joined.
func parseHeaders(block []byte) map[string]string {
	headers := make(map[string]string)
	lastKey := ""
	for _, rawLine := range strings.Split(string(block), "\n") {
		line := strings.TrimRight(rawLine, "\r")
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && lastKey != "" {
			headers[lastKey] += " " + strings.TrimSpace(line)
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx <= 0 {
			continue
		}
		lastKey = strings.ToLower(strings.TrimSpace(line[:idx]))
		headers[lastKey] = strings.TrimSpace(line[idx+1:])
	}
	return headers
}

// parseDisposition splits a Content-Disposition value into its type and parameters.
// Parameter names are lower-cased; quoted values are unquoted.
func parseDisposition(value string) (string, map[string]string) {
	params := make(map[string]string)
	pieces := splitUnquoted(value, ';')
	dispType := strings.ToLower(strings.TrimSpace(pieces[0]))
	for _, piece := range pieces[1:] {
		idx := strings.IndexByte(piece, '=')
		if idx <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(piece[:idx]))
		params[key] = unquote(strings.TrimSpace(piece[idx+1:]))
	}
	return dispType, params
}

func splitUnquoted(s string, sep byte) []string {
	pieces := make([]string, 0)
	inQuotes := false
	escaped := false
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inQuotes:
			escaped = true
		case c == '"':
			inQuotes = !inQuotes
		case c == sep && !inQuotes:
			pieces = append(pieces, s[start:i])
			start = i + 1
		}
	}
	return append(pieces, s[start:])
}

func unquote(s string) string {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return s
	}
	s = s[1 : len(s)-1]
	if !strings.Contains(s, "\\") {
		return s
	}
	b := strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// decodeExtendedValue handles the RFC 5987 charset''percent-encoded form.
func decodeExtendedValue(s string) string {
	parts := strings.SplitN(s, "''", 2)
	if len(parts) != 2 {
		return s
	}
	decoded, err := url.PathUnescape(parts[1])
	if err != nil {
		return parts[1]
	}
	return decoded
}

// BoundaryFromContentType pulls the boundary parameter out of a request Content-Type.
func BoundaryFromContentType(contentType string) (string, error) {
	mediaType, params := parseDisposition(contentType)
	if mediaType != "multipart/form-data" {
		return "", ErrNotMultipart
	}
	boundary := params["boundary"]
	if boundary == "" {
		return "", ErrNoBoundary
	}
	return boundary, nil
}
