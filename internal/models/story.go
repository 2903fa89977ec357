package models

import "time"

// Story is a top-level authored work. It contains chapters linked by actions
// (the narrative graph) plus descriptive characters.
type Story struct {
	ID            int64     `db:"id" json:"id"`
	AuthorID      int64     `db:"author_id" json:"author"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Genre         string    `db:"genre" json:"genre"`
	CoverImageURL *string   `db:"cover_image_url" json:"cover_image,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`

	// AuthorNickname is resolved via join for listings; not a column of the
	// stories table itself.
	AuthorNickname string `db:"author_nickname" json:"author_nickname,omitempty"`
}

// Character belongs to a story and is purely descriptive; it plays no role in
// the narrative graph.
type Character struct {
	ID              int64   `db:"id" json:"id"`
	StoryID         int64   `db:"story_id" json:"story"`
	Name            string  `db:"name" json:"name"`
	Description     string  `db:"description" json:"description"`
	IllustrationURL *string `db:"illustration_url" json:"illustration,omitempty"`
}
