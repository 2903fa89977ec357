package models

import (
	"encoding/json"
	"time"
)

// Passage is an immutable record of one reader's traversal through a story's
// graph. The path is stored exactly as submitted: an ordered JSON array of
// graph-node identifiers that the server does not validate against the actual
// chapter/action graph.
type Passage struct {
	ID        int64           `db:"id" json:"id"`
	StoryID   int64           `db:"story_id" json:"story"`
	AccountID int64           `db:"account_id" json:"account"`
	Path      json.RawMessage `db:"path" json:"path"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	// Resolved via joins for display.
	StoryTitle      string `db:"story_title" json:"story_title,omitempty"`
	AccountNickname string `db:"account_nickname" json:"account_nickname,omitempty"`
}
