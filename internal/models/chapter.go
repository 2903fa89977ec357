package models

// Chapter is a node in a story's narrative graph; a unit of content shown to
// the reader.
type Chapter struct {
	ID      int64  `db:"id" json:"id"`
	StoryID int64  `db:"story_id" json:"story"`
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
}

// Action is a directed, labeled edge between two chapters. A nil target marks
// an ending: the choice exists but leads nowhere, so the story stops there.
type Action struct {
	ID              int64  `db:"id" json:"id"`
	Text            string `db:"text" json:"text"`
	SourceChapterID int64  `db:"source_chapter_id" json:"source_chapter"`
	TargetChapterID *int64 `db:"target_chapter_id" json:"target_chapter"`
}
