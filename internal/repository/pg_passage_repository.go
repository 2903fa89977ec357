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

// Compile-time check to ensure pgPassageRepository implements PassageRepository
var _ interfaces.PassageRepository = (*pgPassageRepository)(nil)

type pgPassageRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgPassageRepository creates a new PostgreSQL-backed PassageRepository.
func NewPgPassageRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.PassageRepository {
	return &pgPassageRepository{
		db:     db,
		logger: logger.Named("PgPassageRepo"),
	}
}

const getPassageByIDQuery = `
	SELECT p.id, p.story_id, p.account_id, p.path, p.created_at,
	       s.title AS story_title, a.nickname AS account_nickname
	FROM passages p
	JOIN stories s ON s.id = p.story_id
	JOIN accounts a ON a.id = p.account_id
	WHERE p.id = $1`

// Create records a passage. The path is stored verbatim; there is no
// validation that it corresponds to a real walk of the story's graph.
func (r *pgPassageRepository) Create(ctx context.Context, passage *models.Passage) error {
	query := `
		INSERT INTO passages (story_id, account_id, path)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	logFields := []zap.Field{
		zap.Int64("storyID", passage.StoryID),
		zap.Int64("accountID", passage.AccountID),
	}
	r.logger.Debug("Recording new passage", logFields...)

	err := r.db.QueryRow(ctx, query, passage.StoryID, passage.AccountID, passage.Path).
		Scan(&passage.ID, &passage.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			r.logger.Warn("Passage references non-existent story or account", logFields...)
			return models.ErrStoryNotFound
		}
		r.logger.Error("Failed to create passage", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create passage: %w", err)
	}

	r.logger.Info("Passage recorded successfully", append(logFields, zap.Int64("passageID", passage.ID))...)
	return nil
}

// GetByID retrieves a passage with its story title and account nickname
// resolved for display.
func (r *pgPassageRepository) GetByID(ctx context.Context, id int64) (*models.Passage, error) {
	r.logger.Debug("Getting passage by ID", zap.Int64("passageID", id))

	passage := &models.Passage{}
	err := r.db.QueryRow(ctx, getPassageByIDQuery, id).Scan(
		&passage.ID,
		&passage.StoryID,
		&passage.AccountID,
		&passage.Path,
		&passage.CreatedAt,
		&passage.StoryTitle,
		&passage.AccountNickname,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Passage not found by ID", zap.Int64("passageID", id))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get passage by ID", zap.Int64("passageID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get passage by ID %d: %w", id, err)
	}
	return passage, nil
}
