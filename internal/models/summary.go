package models

import (
	"time"

	"github.com/google/uuid"
)

type Summary struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"owner_id"`
	SourceRef   string    `json:"source_ref"`
	Text        string    `json:"text"`
	DisplayName string    `json:"display_name"`
	FileName    string    `json:"file_name"`
	CreatedAt   time.Time `json:"created_at"`
}
