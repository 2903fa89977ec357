package handler

import "encoding/json"

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Nickname string `json:"nickname" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type storyRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Genre         string  `json:"genre"`
	CoverImageURL *string `json:"cover_image"`
}

type chapterRequest struct {
	StoryID int64  `json:"story" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type characterRequest struct {
	StoryID         int64   `json:"story" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Description     string  `json:"description"`
	IllustrationURL *string `json:"illustration"`
}

type actionRequest struct {
	Text            string `json:"text" binding:"required"`
	SourceChapterID int64  `json:"source_chapter" binding:"required"`
	TargetChapterID *int64 `json:"target_chapter"`
}

type passageRequest struct {
	StoryID int64           `json:"story" binding:"required"`
	Path    json.RawMessage `json:"path" binding:"required"`
}
