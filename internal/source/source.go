// Package source opens the input and output locations of commands: local
// files, "-" for stdin/stdout and s3://bucket/key objects.
package source

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/piratetools42/antragsbuch/pkg/constants"
	"github.com/piratetools42/antragsbuch/pkg/errors"
	"github.com/piratetools42/antragsbuch/pkg/logging"
)

// Kind is the type of a location.
type Kind string

const (
	// KindStdio is stdin for reading and stdout for writing.
	KindStdio Kind = "stdio"
	// KindFile is a local path.
	KindFile Kind = "file"
	// KindS3 is an object in an S3 compatible store.
	KindS3 Kind = "s3"
)

const s3Scheme = "s3://"

// Location is a parsed location string.
type Location struct {
	Kind   Kind
	Path   string
	Bucket string
	Key    string
}

// String returns the location in its input form.
func (l Location) String() string {
	switch l.Kind {
	case KindStdio:
		return constants.StdioPath
	case KindS3:
		return s3Scheme + l.Bucket + "/" + l.Key
	default:
		return l.Path
	}
}

// ParseLocation parses "-", "s3://bucket/key" or a local path.
func ParseLocation(s string) (Location, error) {
	switch {
	case s == "":
		return Location{}, errors.NewValidationError("location", s, "must not be empty")
	case s == constants.StdioPath:
		return Location{Kind: KindStdio}, nil
	case strings.HasPrefix(s, s3Scheme):
		bucket, key, _ := strings.Cut(strings.TrimPrefix(s, s3Scheme), "/")
		if bucket == "" || key == "" {
			return Location{}, errors.NewValidationError("location", s, "expected s3://bucket/key")
		}
		return Location{Kind: KindS3, Bucket: bucket, Key: key}, nil
	default:
		return Location{Kind: KindFile, Path: s}, nil
	}
}

// S3API is the part of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Opener opens locations. The zero value is not usable; use New.
type Opener struct {
	stdin  io.Reader
	stdout io.Writer

	newS3  func(ctx context.Context) (S3API, error)
	s3Once sync.Once
	s3     S3API
	s3Err  error
}

// Option configures an Opener.
type Option func(*Opener)

// WithStdio replaces stdin and stdout.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(o *Opener) {
		o.stdin = in
		o.stdout = out
	}
}

// WithS3Client uses client for s3 locations instead of one built from the
// environment.
func WithS3Client(client S3API) Option {
	return func(o *Opener) {
		o.newS3 = func(context.Context) (S3API, error) { return client, nil }
	}
}

// New creates an Opener using the process stdio and an S3 client configured
// from the environment on first use.
func New(opts ...Option) *Opener {
	o := &Opener{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		newS3: func(ctx context.Context) (S3API, error) {
			return NewS3Client(ctx, S3ConfigFromEnv())
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Opener) client(ctx context.Context) (S3API, error) {
	o.s3Once.Do(func() {
		o.s3, o.s3Err = o.newS3(ctx)
	})
	return o.s3, o.s3Err
}

// Open opens location for reading.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().
		Str("location", loc.String()).
		Str("kind", string(loc.Kind)).
		Msg("Opening input")

	switch loc.Kind {
	case KindStdio:
		return io.NopCloser(o.stdin), nil
	case KindS3:
		client, err := o.client(ctx)
		if err != nil {
			return nil, errors.WrapResource("open", "s3 client", "", err)
		}
		out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &loc.Bucket, Key: &loc.Key})
		if err != nil {
			return nil, errors.WrapIO("read", loc.String(), err)
		}
		return out.Body, nil
	default:
		f, err := os.Open(loc.Path)
		if err != nil {
			return nil, errors.WrapIO("open", loc.Path, err)
		}
		return f, nil
	}
}

// ReadAll reads the whole content of location.
func (o *Opener) ReadAll(ctx context.Context, location string) ([]byte, error) {
	r, err := o.Open(ctx, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", location, err)
	}
	return data, nil
}

// Create opens location for writing. Files are created with their parent
// directories; s3 objects are uploaded on Close.
func (o *Opener) Create(ctx context.Context, location string) (io.WriteCloser, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	switch loc.Kind {
	case KindStdio:
		return nopWriteCloser{o.stdout}, nil
	case KindS3:
		client, err := o.client(ctx)
		if err != nil {
			return nil, errors.WrapResource("open", "s3 client", "", err)
		}
		return &objectWriter{ctx: ctx, client: client, loc: loc}, nil
	default:
		if dir := filepath.Dir(loc.Path); dir != "." {
			if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
				return nil, errors.WrapIO("create", dir, err)
			}
		}
		f, err := os.OpenFile(loc.Path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
		if err != nil {
			return nil, errors.WrapIO("create", loc.Path, err)
		}
		return f, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// objectWriter buffers an object and uploads it on Close.
type objectWriter struct {
	ctx    context.Context
	client S3API
	loc    Location
	buf    bytes.Buffer
	closed bool
}

func (w *objectWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, errors.WrapIO("write", w.loc.String(), os.ErrClosed)
	}
	return w.buf.Write(p)
}

func (w *objectWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	_, err := w.client.PutObject(w.ctx, &s3.PutObjectInput{
		Bucket: &w.loc.Bucket,
		Key:    &w.loc.Key,
		Body:   bytes.NewReader(w.buf.Bytes()),
	})
	return errors.WrapIO("write", w.loc.String(), err)
}
