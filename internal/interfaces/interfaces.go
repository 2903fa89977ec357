package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storyforge/internal/models"
)

// DBTX abstracts over *pgxpool.Pool and pgx.Tx so repositories can run inside
// or outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository persists accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByNickname(ctx context.Context, nickname string) (*models.Account, error)
}

// StoryFilter narrows the public story listing.
type StoryFilter struct {
	// Genre, when non-empty, is matched case-insensitively and exactly.
	Genre string
	// Search, when non-empty, is substring-matched (case-insensitive) against
	// title, description, genre and author nickname.
	Search string
}

// StoryRepository persists stories.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	GetByID(ctx context.Context, id int64) (*models.Story, error)
	Update(ctx context.Context, story *models.Story) error
	Delete(ctx context.Context, id int64) error
	// ListByAuthor returns the author's stories, most recently updated first.
	ListByAuthor(ctx context.Context, authorID int64) ([]models.Story, error)
	// ListPublic returns all stories matching the filter, most recently
	// updated first, regardless of owner.
	ListPublic(ctx context.Context, filter StoryFilter) ([]models.Story, error)
}

// ChapterRepository persists chapters (the nodes of the narrative graph).
type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id int64) (*models.Chapter, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id int64) error
	// List returns chapters, optionally restricted to one story.
	List(ctx context.Context, storyID *int64) ([]models.Chapter, error)
}

// CharacterRepository persists characters.
type CharacterRepository interface {
	Create(ctx context.Context, character *models.Character) error
	GetByID(ctx context.Context, id int64) (*models.Character, error)
	Update(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, storyID *int64) ([]models.Character, error)
}

// ActionRepository persists actions (the edges of the narrative graph).
type ActionRepository interface {
	Create(ctx context.Context, action *models.Action) error
	GetByID(ctx context.Context, id int64) (*models.Action, error)
	Update(ctx context.Context, action *models.Action) error
	Delete(ctx context.Context, id int64) error
	// List returns actions, optionally restricted to one source chapter.
	List(ctx context.Context, sourceChapterID *int64) ([]models.Action, error)
}

// PassageRepository persists passages. Passages are create-once: no update or
// delete methods exist on purpose.
type PassageRepository interface {
	Create(ctx context.Context, passage *models.Passage) error
	GetByID(ctx context.Context, id int64) (*models.Passage, error)
}

// TokenRepository tracks issued token pairs so logout and refresh can revoke
// them before their JWT expiry.
type TokenRepository interface {
	SetToken(ctx context.Context, accountID int64, td *models.TokenDetails) error
	GetAccountIDByAccessUUID(ctx context.Context, accessUUID string) (int64, error)
	GetAccountIDByRefreshUUID(ctx context.Context, refreshUUID string) (int64, error)
	DeleteTokens(ctx context.Context, uuids ...string) (int64, error)
}
