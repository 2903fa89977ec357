package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

// Compile-time check to ensure pgChapterRepository implements ChapterRepository
var _ interfaces.ChapterRepository = (*pgChapterRepository)(nil)

type pgChapterRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgChapterRepository creates a new PostgreSQL-backed ChapterRepository.
func NewPgChapterRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ChapterRepository {
	return &pgChapterRepository{
		db:     db,
		logger: logger.Named("PgChapterRepo"),
	}
}

// Create inserts a new chapter into its story.
func (r *pgChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	query := `INSERT INTO chapters (story_id, title, content) VALUES ($1, $2, $3) RETURNING id`
	logFields := []zap.Field{zap.Int64("storyID", chapter.StoryID), zap.String("title", chapter.Title)}
	r.logger.Debug("Creating new chapter", logFields...)

	err := r.db.QueryRow(ctx, query, chapter.StoryID, chapter.Title, chapter.Content).Scan(&chapter.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Chapter references non-existent story", logFields...)
			return models.ErrStoryNotFound
		}
		r.logger.Error("Failed to create chapter", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create chapter: %w", err)
	}

	r.logger.Info("Chapter created successfully", append(logFields, zap.Int64("chapterID", chapter.ID))...)
	return nil
}

// GetByID retrieves a chapter by its ID.
func (r *pgChapterRepository) GetByID(ctx context.Context, id int64) (*models.Chapter, error) {
	query := `SELECT id, story_id, title, content FROM chapters WHERE id = $1`
	r.logger.Debug("Getting chapter by ID", zap.Int64("chapterID", id))

	chapter := &models.Chapter{}
	err := r.db.QueryRow(ctx, query, id).Scan(&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Chapter not found by ID", zap.Int64("chapterID", id))
			return nil, models.ErrChapterNotFound
		}
		r.logger.Error("Failed to get chapter by ID", zap.Int64("chapterID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get chapter by ID %d: %w", id, err)
	}
	return chapter, nil
}

// Update rewrites the chapter's title and content.
func (r *pgChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	query := `UPDATE chapters SET title = $2, content = $3 WHERE id = $1`
	logFields := []zap.Field{zap.Int64("chapterID", chapter.ID)}
	r.logger.Debug("Updating chapter", logFields...)

	cmdTag, err := r.db.Exec(ctx, query, chapter.ID, chapter.Title, chapter.Content)
	if err != nil {
		r.logger.Error("Failed to update chapter", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update chapter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent chapter", logFields...)
		return models.ErrChapterNotFound
	}

	r.logger.Info("Chapter updated successfully", logFields...)
	return nil
}

// Delete removes a chapter. The schema cascades outgoing actions away and
// clears the target of incoming actions, keeping those edges as endings.
func (r *pgChapterRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM chapters WHERE id = $1`
	r.logger.Debug("Deleting chapter", zap.Int64("chapterID", id))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete chapter", zap.Int64("chapterID", id), zap.Error(err))
		return fmt.Errorf("failed to delete chapter: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent chapter", zap.Int64("chapterID", id))
		return models.ErrChapterNotFound
	}

	r.logger.Info("Chapter deleted successfully", zap.Int64("chapterID", id))
	return nil
}

// List returns chapters, optionally restricted to a single story.
func (r *pgChapterRepository) List(ctx context.Context, storyID *int64) ([]models.Chapter, error) {
	query := `SELECT id, story_id, title, content FROM chapters`
	args := []any{}
	if storyID != nil {
		query += ` WHERE story_id = $1`
		args = append(args, *storyID)
	}
	query += ` ORDER BY id ASC`
	r.logger.Debug("Listing chapters", zap.Int64p("storyID", storyID))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query chapters", zap.Error(err))
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	chapters := make([]models.Chapter, 0)
	for rows.Next() {
		var chapter models.Chapter
		if err := rows.Scan(&chapter.ID, &chapter.StoryID, &chapter.Title, &chapter.Content); err != nil {
			return nil, fmt.Errorf("failed to scan chapter row: %w", err)
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chapter rows: %w", err)
	}
	return chapters, nil
}
