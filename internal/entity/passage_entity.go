package entity

import (
	"time"

	"github.com/google/uuid"
)

// Passage is one ingested corpus chunk bound to an expert collection.
type Passage struct {
	Id         uuid.UUID
	Collection string
	Text       string
	Source     string
	Page       int
	Metadata   map[string]interface{}
	CreatedAt  time.Time
}
