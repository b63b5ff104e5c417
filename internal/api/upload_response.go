package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const defaultUploadName = "document.pdf"

var ErrNoUploadURL = errors.New("upload response has no file url")

// UploadResult is the canonical form of a file uploader's response.
type UploadResult struct {
	URL  string
	Name string
}

type uploadedFile struct {
	URL      string `json:"url"`
	UfsURL   string `json:"ufsUrl"`
	FileURL  string `json:"fileUrl"`
	AppURL   string `json:"appUrl"`
	Name     string `json:"name"`
	FileName string `json:"fileName"`
}

func (f uploadedFile) result() UploadResult {
	return UploadResult{
		URL:  firstNonEmpty(f.URL, f.UfsURL, f.FileURL, f.AppURL),
		Name: firstNonEmpty(f.Name, f.FileName, defaultUploadName),
	}
}

// ParseUploadResponse accepts either a single uploaded file object or an
// array of them, in which case the first entry is used. One wrapping
// {"data": ...} or {"file": ...} envelope is unwrapped; anything nested
// deeper is ErrNoUploadURL.
func ParseUploadResponse(body []byte) (UploadResult, error) {
	return parseUploaded(body, true)
}

func parseUploaded(body []byte, unwrap bool) (UploadResult, error) {
	raw, err := firstEntry(body)
	if err != nil {
		return UploadResult{}, err
	}

	var envelope struct {
		uploadedFile
		Data json.RawMessage `json:"data"`
		File json.RawMessage `json:"file"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return UploadResult{}, fmt.Errorf("failed to decode upload response: %w", err)
	}

	if res := envelope.uploadedFile.result(); res.URL != "" {
		return res, nil
	}
	if unwrap {
		for _, nested := range []json.RawMessage{envelope.Data, envelope.File} {
			if len(nested) > 0 && string(nested) != "null" {
				return parseUploaded(nested, false)
			}
		}
	}
	return UploadResult{}, ErrNoUploadURL
}

// firstEntry returns body itself, or its first element when body is an
// array. Arrays of arrays are not accepted.
func firstEntry(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrNoUploadURL
	}
	if trimmed[0] != '[' {
		return trimmed, nil
	}

	var files []json.RawMessage
	if err := json.Unmarshal(trimmed, &files); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if len(files) == 0 {
		return nil, ErrNoUploadURL
	}
	first := bytes.TrimSpace(files[0])
	if len(first) == 0 || first[0] != '{' {
		return nil, ErrNoUploadURL
	}
	return first, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
