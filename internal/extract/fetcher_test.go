package extract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeObjects struct {
	objects map[string]string
	bucket  string
	object  string
}

func (f *fakeObjects) Open(_ context.Context, bucket, object string) (io.ReadCloser, error) {
	f.bucket, f.object = bucket, object
	body, ok := f.objects[bucket+"/"+object]
	if !ok {
		return nil, errors.New("storage: object doesn't exist")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.pdf":
			w.Write([]byte("%PDF-1.4 body"))
		case "/empty.pdf":
			w.WriteHeader(http.StatusOK)
		case "/big.pdf":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewSourceFetcher(32, 5*time.Second)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{name: "ok", path: "/ok.pdf", want: "%PDF-1.4 body"},
		{name: "empty body", path: "/empty.pdf", wantErr: ErrEmptyDocument},
		{name: "not found", path: "/missing.pdf", wantErr: ErrFetchFailed},
		{name: "too large", path: "/big.pdf", wantErr: ErrFetchFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Fetch(context.Background(), srv.URL+tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fetch() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Fetch() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewSourceFetcher(0, time.Second).Fetch(context.Background(), addr+"/doc.pdf")
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("Fetch() error = %v, want ErrFetchFailed", err)
	}
}

func TestFetchObjectReference(t *testing.T) {
	objects := &fakeObjects{objects: map[string]string{"uploads/abc.pdf": "%PDF-1.4"}}
	f := NewSourceFetcher(1024, time.Second, WithObjectOpener(objects))

	got, err := f.Fetch(context.Background(), "gs://uploads/abc.pdf")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(got) != "%PDF-1.4" || objects.bucket != "uploads" || objects.object != "abc.pdf" {
		t.Errorf("Fetch() = %q from %s/%s", got, objects.bucket, objects.object)
	}

	if _, err := f.Fetch(context.Background(), "gs://uploads/missing.pdf"); !errors.Is(err, ErrFetchFailed) {
		t.Errorf("missing object error = %v, want ErrFetchFailed", err)
	}
}

func TestFetchRejectsUnsupportedReferences(t *testing.T) {
	f := NewSourceFetcher(1024, time.Second)
	for _, ref := range []string{"ftp://host/doc.pdf", "gs://bucket/doc.pdf", "not a url\x7f"} {
		if _, err := f.Fetch(context.Background(), ref); !errors.Is(err, ErrFetchFailed) {
			t.Errorf("Fetch(%q) error = %v, want ErrFetchFailed", ref, err)
		}
	}
}
