package source

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piratetools42/antragsbuch/pkg/errors"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in      string
		want    Location
		wantErr bool
	}{
		{in: "-", want: Location{Kind: KindStdio}},
		{in: "antragsbuch.json", want: Location{Kind: KindFile, Path: "antragsbuch.json"}},
		{in: "s3://bpt/exports/antragsbuch.json", want: Location{Kind: KindS3, Bucket: "bpt", Key: "exports/antragsbuch.json"}},
		{in: "s3://bpt", wantErr: true},
		{in: "s3:///key", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocation(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o644))

	data, err := New().ReadAll(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := New().Open(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStdio(t *testing.T) {
	var out bytes.Buffer
	o := New(WithStdio(strings.NewReader("von stdin"), &out))

	data, err := o.ReadAll(context.Background(), "-")
	require.NoError(t, err)
	assert.Equal(t, "von stdin", string(data))

	w, err := o.Create(context.Background(), "-")
	require.NoError(t, err)
	_, err = io.WriteString(w, "nach stdout")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "nach stdout", out.String())
}

func TestCreateFileMakesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "prepared.json")

	w, err := New().Create(context.Background(), path)
	require.NoError(t, err)
	_, err = io.WriteString(w, "[]\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

// mockS3 is an in-memory fake of the S3 GetObject and PutObject calls.
type mockS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *mockS3) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodGet:
		body, ok := m.objects[key]
		if !ok {
			return response(http.StatusNotFound, nil), nil
		}
		resp := response(http.StatusOK, body)
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		m.objects[key] = decodeChunked(body)
		resp := response(http.StatusOK, nil)
		resp.Header.Set("ETag", `"etag"`)
		return resp, nil
	}
	return response(http.StatusNotImplemented, nil), nil
}

func response(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     http.Header{},
	}
}

// decodeChunked unwraps a single chunk aws-chunked payload; other bodies are
// returned unchanged.
func decodeChunked(b []byte) []byte {
	size, rest, ok := strings.Cut(string(b), "\r\n")
	if !ok {
		return b
	}
	n, err := strconv.ParseInt(size, 16, 64)
	if err != nil || int64(len(rest)) < n {
		return b
	}
	return []byte(rest[:n])
}

// isolateAWSEnv clears the AWS settings of the machine running the tests.
// A CA bundle in particular cannot be applied to the mock's plain http.Client.
func isolateAWSEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"AWS_CA_BUNDLE", "AWS_PROFILE", "AWS_DEFAULT_PROFILE", "AWS_REGION",
		"AWS_DEFAULT_REGION", "AWS_ENDPOINT_URL", "AWS_ENDPOINT_URL_S3",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_SESSION_TOKEN",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func newMockOpener(t *testing.T, objects map[string][]byte) (*Opener, *mockS3) {
	t.Helper()
	isolateAWSEnv(t)
	mock := &mockS3{objects: objects}
	client, err := NewS3Client(context.Background(),
		S3Config{Endpoint: "https://mock.s3.local", PathStyle: true},
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
		config.WithHTTPClient(&http.Client{Transport: mock}),
	)
	require.NoError(t, err)
	return New(WithS3Client(client)), mock
}

func TestS3MockIgnoresMachineAWSConfig(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(bundle, []byte("not a certificate"), 0o600))
	t.Setenv("AWS_CA_BUNDLE", bundle)
	t.Setenv("AWS_PROFILE", "does-not-exist")

	o, _ := newMockOpener(t, map[string][]byte{"bpt/a.txt": []byte("WP038")})
	data, err := o.ReadAll(context.Background(), "s3://bpt/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "WP038", string(data))
}

func TestS3Open(t *testing.T) {
	o, _ := newMockOpener(t, map[string][]byte{
		"bpt/exports/antragsbuch.json": []byte(`[{"id":"WP038"}]`),
	})

	data, err := o.ReadAll(context.Background(), "s3://bpt/exports/antragsbuch.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"WP038"}]`, string(data))

	_, err = o.Open(context.Background(), "s3://bpt/missing.json")
	require.Error(t, err)
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestS3Create(t *testing.T) {
	o, mock := newMockOpener(t, map[string][]byte{})

	w, err := o.Create(context.Background(), "s3://bpt/prepared.json")
	require.NoError(t, err)
	_, err = io.WriteString(w, `[]`)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "second close is a no-op")

	assert.Equal(t, "[]", string(mock.objects["bpt/prepared.json"]))

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestS3ConfigFromEnv(t *testing.T) {
	t.Setenv("ANTRAGSBUCH_S3_REGION", "eu-central-1")
	t.Setenv("ANTRAGSBUCH_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("ANTRAGSBUCH_S3_PATH_STYLE", "TRUE")

	assert.Equal(t, S3Config{
		Region:    "eu-central-1",
		Endpoint:  "http://localhost:9000",
		PathStyle: true,
	}, S3ConfigFromEnv())
}
