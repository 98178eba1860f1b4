package formdata

import (
	"bytes"
	"math/rand"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func join(lines ...string) []byte {
	b := &bytes.Buffer{}
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return b.Bytes()
}

func TestDecodeTextAndFile(t *testing.T) {
	body := join(
		"--XyZ",
		`Content-Disposition: form-data; name="type"`,
		"",
		"  photo ",
		"--XyZ",
		`Content-Disposition: form-data; name="file"; filename="a.jpg"`,
		"Content-Type: image/jpeg",
		"",
		"\xff\xd8\xff",
		"--XyZ--",
	)

	form := Decode(body, "XyZ")
	require.Len(t, form, 2)

	v, ok := form.Value("type")
	assert.True(t, ok)
	assert.Equal(t, "photo", v)

	f, ok := form.File("file")
	require.True(t, ok)
	assert.Equal(t, "a.jpg", f.FileName)
	assert.Equal(t, "image/jpeg", f.ContentType)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, f.Data)
}

func TestDecodeBinaryWithLineBreaksAndBoundaryLikeBytes(t *testing.T) {
	data := []byte{0xFF, 0xD8, '\r', '\n', '-', '-', 'b', 'o', 'u', 'n', 'd', 'a', 'r', 0x00, '\r', '\n', '\r', '\n', '\n', '\n', 0xFF, 0xD9, '\r', '\n'}

	body := &bytes.Buffer{}
	body.WriteString("--boundary\r\n")
	body.WriteString("Content-Disposition: form-data; name=\"file\"; filename=\"x.bin\"\r\n\r\n")
	body.Write(data)
	body.WriteString("\r\n--boundary--\r\n")

	form := Decode(body.Bytes(), "boundary")
	f, ok := form.File("file")
	require.True(t, ok)
	assert.Equal(t, data, f.Data)
	assert.Equal(t, DefaultContentType, f.ContentType)
}

func TestDecodeMatchesStandardWriter(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	data := make([]byte, 64*1024)
	_, _ = rnd.Read(data)

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	require.NoError(t, w.WriteField("type", "video"))
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="clip.mp4"`)
	h.Set("Content-Type", "video/mp4")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form := Decode(buf.Bytes(), w.Boundary())
	v, ok := form.Value("type")
	assert.True(t, ok)
	assert.Equal(t, "video", v)

	f, ok := form.File("file")
	require.True(t, ok)
	assert.Equal(t, "clip.mp4", f.FileName)
	assert.Equal(t, "video/mp4", f.ContentType)
	assert.True(t, bytes.Equal(data, f.Data))
}

func TestDecodeSkipsMalformedParts(t *testing.T) {
	body := join(
		"preamble is ignored",
		"--b",
		"Content-Type: text/plain",
		"",
		"no disposition",
		"--b",
		`Content-Disposition: form-data; filename="nameless.txt"`,
		"",
		"no name",
		"--b",
		`Content-Disposition: form-data; name="broken"`,
		"headers never end",
		"--b",
		"",
		"no headers",
		"--b",
		`Content-Disposition: form-data; name="good"`,
		"",
		"kept",
		"--b--",
		"epilogue",
		`Content-Disposition: form-data; name="after"`,
	)

	form := Decode(body, "b")
	require.Len(t, form, 1)
	v, ok := form.Value("good")
	assert.True(t, ok)
	assert.Equal(t, "kept", v)
}

func TestDecodeDuplicateNamesLastWins(t *testing.T) {
	body := join(
		"--b",
		`Content-Disposition: form-data; name="type"`,
		"",
		"video",
		"--b",
		`Content-Disposition: form-data; name="type"`,
		"",
		"photo",
		"--b--",
	)

	v, ok := Decode(body, "b").Value("type")
	assert.True(t, ok)
	assert.Equal(t, "photo", v)
}

func TestDecodeAbsentVersusEmpty(t *testing.T) {
	body := join(
		"--b",
		`Content-Disposition: form-data; name="empty"`,
		"",
		"",
		"--b--",
	)

	form := Decode(body, "b")
	v, ok := form.Value("empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = form.Value("missing")
	assert.False(t, ok)
	_, ok = form.File("empty")
	assert.False(t, ok)
}

func TestDecodeToleratesBareLineFeeds(t *testing.T) {
	body := []byte("--b\nContent-Disposition: form-data; name=\"type\"\n\nphoto\n--b\nContent-Disposition: form-data; name=\"file\"; filename=\"f.png\"\nContent-Type: image/png\n\n\x89PNG\n--b--\n")

	form := Decode(body, "b")
	v, _ := form.Value("type")
	assert.Equal(t, "photo", v)
	f, ok := form.File("file")
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG"), f.Data)
	assert.Equal(t, "image/png", f.ContentType)
}

func TestDecodeMissingFinalLineBreak(t *testing.T) {
	body := []byte("--b\r\nContent-Disposition: form-data; name=\"file\"; filename=\"f\"\r\n\r\nabc--b--")

	f, ok := Decode(body, "b").File("file")
	require.True(t, ok)
	assert.Equal(t, []byte("abc"), f.Data)
}

func TestDecodeNoParts(t *testing.T) {
	assert.Empty(t, Decode([]byte("just some bytes"), "b"))
	assert.Empty(t, Decode([]byte{}, "b"))
	assert.Empty(t, Decode(join("--b", `Content-Disposition: form-data; name="x"`, "", "y"), ""))
}

func TestDecodeDispositionParameters(t *testing.T) {
	body := join(
		"--b",
		`content-disposition: form-data; NAME="a;b"; filename=""`,
		"",
		"data",
		"--b",
		`Content-Disposition: form-data; name=plain; filename*=utf-8''%E6%97%A5%E6%9C%AC.jpg`,
		"",
		"data2",
		"--b",
		`Content-Disposition: form-data; name="quoted"; filename="say \"hi\".txt"`,
		"",
		"data3",
		"--b--",
	)

	form := Decode(body, "b")

	f, ok := form.File("a;b")
	require.True(t, ok)
	assert.Equal(t, "", f.FileName)
	assert.Equal(t, []byte("data"), f.Data)

	f, ok = form.File("plain")
	require.True(t, ok)
	assert.Equal(t, "日本.jpg", f.FileName)

	f, ok = form.File("quoted")
	require.True(t, ok)
	assert.Equal(t, `say "hi".txt`, f.FileName)
}

func TestDecodeFoldedHeaders(t *testing.T) {
	body := join(
		"--b",
		"Content-Disposition: form-data;",
		` name="folded"`,
		"",
		"value",
		"--b--",
	)

	v, ok := Decode(body, "b").Value("folded")
	assert.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestDecodeInvalidUtf8Text(t *testing.T) {
	body := join(
		"--b",
		`Content-Disposition: form-data; name="name"`,
		"",
		"Jo\xffe",
		"--b--",
	)

	v, ok := Decode(body, "b").Value("name")
	assert.True(t, ok)
	assert.Equal(t, "Jo\uFFFDe", v)
}

func TestBoundaryFromContentType(t *testing.T) {
	cases := []struct {
		contentType string
		boundary    string
		err         error
	}{
		{"multipart/form-data; boundary=abc123", "abc123", nil},
		{`multipart/form-data; boundary="quoted boundary"`, "quoted boundary", nil},
		{"Multipart/Form-Data; charset=utf-8; BOUNDARY=----WebKitFormBoundary7MA4YWxk", "----WebKitFormBoundary7MA4YWxk", nil},
		{"multipart/form-data", "", ErrNoBoundary},
		{"multipart/form-data; boundary=", "", ErrNoBoundary},
		{"application/json", "", ErrNotMultipart},
		{"", "", ErrNotMultipart},
	}

	for _, c := range cases {
		t.Run(c.contentType, func(t *testing.T) {
			b, err := BoundaryFromContentType(c.contentType)
			assert.Equal(t, c.err, err)
			assert.Equal(t, c.boundary, b)
		})
	}
}
