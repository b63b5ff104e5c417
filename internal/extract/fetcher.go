// Package extract fetches uploaded documents and turns PDFs into plain text.
package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const gcsScheme = "gs"

type Fetcher interface {
	Fetch(ctx context.Context, sourceRef string) ([]byte, error)
}

// ObjectOpener reads objects addressed by gs://bucket/object references.
type ObjectOpener interface {
	Open(ctx context.Context, bucket, object string) (io.ReadCloser, error)
}

type SourceFetcher struct {
	client   *http.Client
	objects  ObjectOpener
	maxBytes int64
}

type FetcherOption func(*SourceFetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *SourceFetcher) {
		f.client = client
	}
}

func WithObjectOpener(objects ObjectOpener) FetcherOption {
	return func(f *SourceFetcher) {
		f.objects = objects
	}
}

func NewSourceFetcher(maxBytes int64, timeout time.Duration, opts ...FetcherOption) *SourceFetcher {
	f := &SourceFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the document behind sourceRef. Transport and status
// failures wrap ErrFetchFailed; a zero-byte body returns ErrEmptyDocument.
func (f *SourceFetcher) Fetch(ctx context.Context, sourceRef string) ([]byte, error) {
	u, err := url.Parse(strings.TrimSpace(sourceRef))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid source reference: %v", ErrFetchFailed, err)
	}

	var body io.ReadCloser
	switch u.Scheme {
	case "http", "https":
		body, err = f.openHTTP(ctx, u)
	case gcsScheme:
		body, err = f.openObject(ctx, u)
	default:
		err = fmt.Errorf("%w: unsupported scheme %q", ErrFetchFailed, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var r io.Reader = body
	if f.maxBytes > 0 {
		r = io.LimitReader(body, f.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read body: %v", ErrFetchFailed, err)
	}
	if f.maxBytes > 0 && int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrFetchFailed, f.maxBytes)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}
	return data, nil
}

func (f *SourceFetcher) openHTTP(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}
	return resp.Body, nil
}

func (f *SourceFetcher) openObject(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	if f.objects == nil {
		return nil, fmt.Errorf("%w: object storage not configured", ErrFetchFailed)
	}
	object := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || object == "" {
		return nil, fmt.Errorf("%w: malformed object reference %q", ErrFetchFailed, u.String())
	}
	rc, err := f.objects.Open(ctx, u.Host, object)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return rc, nil
}
