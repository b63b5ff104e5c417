package extract

import "errors"

var (
	ErrFetchFailed       = errors.New("extract: fetch failed")
	ErrEmptyDocument     = errors.New("extract: document is empty")
	ErrNoExtractableText = errors.New("extract: no extractable text")
)
