package api

import (
	"errors"
	"strings"
	"testing"
)

func TestParseUploadResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    UploadResult
		wantErr error
	}{
		{name: "object url", body: `{"url":"https://f/a.pdf","name":"a.pdf"}`, want: UploadResult{"https://f/a.pdf", "a.pdf"}},
		{name: "array first entry", body: `[{"appUrl":"https://f/1.pdf"},{"url":"https://f/2.pdf"}]`, want: UploadResult{"https://f/1.pdf", defaultUploadName}},
		{name: "url precedence", body: `{"fileUrl":"https://f/file","ufsUrl":"https://f/ufs"}`, want: UploadResult{"https://f/ufs", defaultUploadName}},
		{name: "fileName fallback", body: `{"url":"https://f/a","fileName":"report.pdf"}`, want: UploadResult{"https://f/a", "report.pdf"}},
		{name: "data envelope", body: `{"data":[{"url":"https://f/d.pdf","name":"d.pdf"}]}`, want: UploadResult{"https://f/d.pdf", "d.pdf"}},
		{name: "file envelope", body: `{"file":{"ufsUrl":"https://f/u.pdf"}}`, want: UploadResult{"https://f/u.pdf", defaultUploadName}},
		{name: "array inside envelope", body: `[{"data":{"url":"https://f/x.pdf"}}]`, want: UploadResult{"https://f/x.pdf", defaultUploadName}},
		{name: "envelope in envelope", body: `{"data":{"data":{"url":"https://f/deep.pdf"}}}`, wantErr: ErrNoUploadURL},
		{name: "array of arrays", body: `[[{"url":"https://f/a.pdf"}]]`, wantErr: ErrNoUploadURL},
		{name: "empty array", body: `[]`, wantErr: ErrNoUploadURL},
		{name: "blank", body: `  `, wantErr: ErrNoUploadURL},
		{name: "no url", body: `{"name":"a.pdf"}`, wantErr: ErrNoUploadURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUploadResponse([]byte(tt.body))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseUploadResponse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseUploadResponse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseUploadResponse() = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, err := ParseUploadResponse([]byte(`{broken`)); err == nil {
		t.Errorf("malformed JSON accepted")
	}
}

func TestParseUploadResponseDeepNesting(t *testing.T) {
	const depth = 5000
	body := strings.Repeat(`{"data":`, depth) + `{"url":"https://f/a.pdf"}` + strings.Repeat("}", depth)

	if _, err := ParseUploadResponse([]byte(body)); !errors.Is(err, ErrNoUploadURL) {
		t.Fatalf("ParseUploadResponse() error = %v, want ErrNoUploadURL", err)
	}

	arrays := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	if _, err := ParseUploadResponse([]byte(arrays)); !errors.Is(err, ErrNoUploadURL) {
		t.Fatalf("nested arrays error = %v, want ErrNoUploadURL", err)
	}
}
