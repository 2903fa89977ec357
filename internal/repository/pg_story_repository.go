package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

// Compile-time check to ensure pgStoryRepository implements StoryRepository
var _ interfaces.StoryRepository = (*pgStoryRepository)(nil)

type pgStoryRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgStoryRepository creates a new PostgreSQL-backed StoryRepository.
func NewPgStoryRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.StoryRepository {
	return &pgStoryRepository{
		db:     db,
		logger: logger.Named("PgStoryRepo"),
	}
}

const storyFields = `
	s.id, s.author_id, s.title, s.description, s.genre, s.cover_image_url,
	s.created_at, s.updated_at, a.nickname AS author_nickname`

const listStoriesBase = `
	SELECT ` + storyFields + `
	FROM stories s
	JOIN accounts a ON a.id = s.author_id`

// Create inserts a new story owned by story.AuthorID.
func (r *pgStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (author_id, title, description, genre, cover_image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	logFields := []zap.Field{zap.Int64("authorID", story.AuthorID), zap.String("title", story.Title)}
	r.logger.Debug("Creating new story", logFields...)

	err := r.db.QueryRow(ctx, query,
		story.AuthorID,
		story.Title,
		story.Description,
		story.Genre,
		story.CoverImageURL,
	).Scan(&story.ID, &story.CreatedAt, &story.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Story references non-existent author", logFields...)
			return models.ErrReferencedRowNotFound
		}
		r.logger.Error("Failed to create story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create story: %w", err)
	}

	r.logger.Info("Story created successfully", append(logFields, zap.Int64("storyID", story.ID))...)
	return nil
}

// GetByID retrieves a story with its author's nickname resolved.
func (r *pgStoryRepository) GetByID(ctx context.Context, id int64) (*models.Story, error) {
	query := listStoriesBase + ` WHERE s.id = $1`
	r.logger.Debug("Getting story by ID", zap.Int64("storyID", id))

	story, err := scanStory(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Story not found by ID", zap.Int64("storyID", id))
			return nil, models.ErrStoryNotFound
		}
		r.logger.Error("Failed to get story by ID", zap.Int64("storyID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get story by ID %d: %w", id, err)
	}
	return story, nil
}

// Update rewrites the story's descriptive fields and refreshes updated_at.
func (r *pgStoryRepository) Update(ctx context.Context, story *models.Story) error {
	query := `
		UPDATE stories SET
			title = $2,
			description = $3,
			genre = $4,
			cover_image_url = $5,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	logFields := []zap.Field{zap.Int64("storyID", story.ID)}
	r.logger.Debug("Updating story", logFields...)

	err := r.db.QueryRow(ctx, query,
		story.ID,
		story.Title,
		story.Description,
		story.Genre,
		story.CoverImageURL,
	).Scan(&story.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Warn("Attempted to update non-existent story", logFields...)
			return models.ErrStoryNotFound
		}
		r.logger.Error("Failed to update story", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update story: %w", err)
	}

	r.logger.Info("Story updated successfully", logFields...)
	return nil
}

// Delete removes a story. Chapters, characters, actions and passages go with
// it via the schema's cascades.
func (r *pgStoryRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM stories WHERE id = $1`
	r.logger.Debug("Deleting story", zap.Int64("storyID", id))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete story", zap.Int64("storyID", id), zap.Error(err))
		return fmt.Errorf("failed to delete story: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent story", zap.Int64("storyID", id))
		return models.ErrStoryNotFound
	}

	r.logger.Info("Story deleted successfully", zap.Int64("storyID", id))
	return nil
}

// ListByAuthor returns the author's stories ordered by most recent update.
func (r *pgStoryRepository) ListByAuthor(ctx context.Context, authorID int64) ([]models.Story, error) {
	query := listStoriesBase + ` WHERE s.author_id = $1 ORDER BY s.updated_at DESC`
	r.logger.Debug("Listing stories by author", zap.Int64("authorID", authorID))

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		r.logger.Error("Failed to query stories by author", zap.Int64("authorID", authorID), zap.Error(err))
		return nil, fmt.Errorf("failed to query stories by author: %w", err)
	}
	defer rows.Close()

	return collectStories(rows)
}

// ListPublic returns all stories matching the filter, most recently updated
// first. Genre is a case-insensitive exact match; search is a substring match
// across title, description, genre and author nickname.
func (r *pgStoryRepository) ListPublic(ctx context.Context, filter interfaces.StoryFilter) ([]models.Story, error) {
	query := listStoriesBase
	args := []any{}
	argID := 1
	where := ""

	if filter.Genre != "" {
		where += fmt.Sprintf(" WHERE LOWER(s.genre) = LOWER($%d)", argID)
		args = append(args, filter.Genre)
		argID++
	}
	if filter.Search != "" {
		if where == "" {
			where = " WHERE"
		} else {
			where += " AND"
		}
		where += fmt.Sprintf(" (s.title ILIKE $%d ESCAPE '\\' OR s.description ILIKE $%d ESCAPE '\\' OR s.genre ILIKE $%d ESCAPE '\\' OR a.nickname ILIKE $%d ESCAPE '\\')",
			argID, argID, argID, argID)
		args = append(args, "%"+escapeLikePattern(filter.Search)+"%")
		argID++
	}

	query += where + ` ORDER BY s.updated_at DESC`
	r.logger.Debug("Listing public stories", zap.String("genre", filter.Genre), zap.String("search", filter.Search))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query public stories", zap.Error(err))
		return nil, fmt.Errorf("failed to query public stories: %w", err)
	}
	defer rows.Close()

	return collectStories(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern escapes LIKE wildcards so user input matches literally.
func escapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

func scanStory(row pgx.Row) (*models.Story, error) {
	story := &models.Story{}
	err := row.Scan(
		&story.ID,
		&story.AuthorID,
		&story.Title,
		&story.Description,
		&story.Genre,
		&story.CoverImageURL,
		&story.CreatedAt,
		&story.UpdatedAt,
		&story.AuthorNickname,
	)
	if err != nil {
		return nil, err
	}
	return story, nil
}

func collectStories(rows pgx.Rows) ([]models.Story, error) {
	stories := make([]models.Story, 0)
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan story row: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating story rows: %w", err)
	}
	return stories, nil
}
