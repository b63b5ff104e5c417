package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

const (
	pdfContentType = "application/pdf"
	uploadPrefix   = "uploads"
	signedURLTTL   = 90 * time.Second
)

// Store keeps uploaded PDFs in a single bucket and addresses them with
// gs://bucket/object references.
type Store struct {
	client     *storage.Client
	bucketName string
}

func NewStore(ctx context.Context, bucketName string) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &Store{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// ObjectName returns a fresh object name under the owner's upload prefix.
func ObjectName(ownerID string) string {
	return path.Join(uploadPrefix, sanitize(ownerID), uuid.New().String()+".pdf")
}

func SourceRef(bucket, object string) string {
	return "gs://" + bucket + "/" + object
}

// Upload writes a PDF and returns its source reference.
func (s *Store) Upload(ctx context.Context, ownerID, fileName string, r io.Reader) (string, error) {
	object := ObjectName(ownerID)

	w := s.client.Bucket(s.bucketName).Object(object).NewWriter(ctx)
	w.ContentType = pdfContentType
	w.Metadata = map[string]string{
		"owner_id":  ownerID,
		"file_name": fileName,
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize object %s: %w", object, err)
	}
	return SourceRef(s.bucketName, object), nil
}

func (s *Store) Open(ctx context.Context, bucket, object string) (io.ReadCloser, error) {
	reader, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create object reader: %w", err)
	}
	return reader, nil
}

type SignedUpload struct {
	URL        string `json:"url"`
	ObjectName string `json:"objectName"`
	SourceRef  string `json:"sourceRef"`
}

// SignedUploadURL returns a short-lived PUT URL for a new PDF object.
func (s *Store) SignedUploadURL(ownerID string) (*SignedUpload, error) {
	object := ObjectName(ownerID)
	url, err := s.client.Bucket(s.bucketName).SignedURL(object, &storage.SignedURLOptions{
		Expires:     time.Now().Add(signedURLTTL),
		Method:      "PUT",
		ContentType: pdfContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate signed URL: %w", err)
	}
	return &SignedUpload{
		URL:        url,
		ObjectName: object,
		SourceRef:  SourceRef(s.bucketName, object),
	}, nil
}

// OwnsObject reports whether object sits under the owner's upload prefix.
func OwnsObject(ownerID, object string) bool {
	return strings.HasPrefix(object, path.Join(uploadPrefix, sanitize(ownerID))+"/")
}

func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, id)
}
