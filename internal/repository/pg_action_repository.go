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

// Compile-time check to ensure pgActionRepository implements ActionRepository
var _ interfaces.ActionRepository = (*pgActionRepository)(nil)

type pgActionRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgActionRepository creates a new PostgreSQL-backed ActionRepository.
func NewPgActionRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.ActionRepository {
	return &pgActionRepository{
		db:     db,
		logger: logger.Named("PgActionRepo"),
	}
}

// Create inserts a new action edge.
func (r *pgActionRepository) Create(ctx context.Context, action *models.Action) error {
	query := `INSERT INTO actions (text, source_chapter_id, target_chapter_id) VALUES ($1, $2, $3) RETURNING id`
	logFields := []zap.Field{
		zap.Int64("sourceChapterID", action.SourceChapterID),
		zap.Int64p("targetChapterID", action.TargetChapterID),
	}
	r.logger.Debug("Creating new action", logFields...)

	err := r.db.QueryRow(ctx, query, action.Text, action.SourceChapterID, action.TargetChapterID).Scan(&action.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Action references non-existent chapter", logFields...)
			return models.ErrChapterNotFound
		}
		r.logger.Error("Failed to create action", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create action: %w", err)
	}

	r.logger.Info("Action created successfully", append(logFields, zap.Int64("actionID", action.ID))...)
	return nil
}

// GetByID retrieves an action by its ID.
func (r *pgActionRepository) GetByID(ctx context.Context, id int64) (*models.Action, error) {
	query := `SELECT id, text, source_chapter_id, target_chapter_id FROM actions WHERE id = $1`
	r.logger.Debug("Getting action by ID", zap.Int64("actionID", id))

	action := &models.Action{}
	err := r.db.QueryRow(ctx, query, id).Scan(&action.ID, &action.Text, &action.SourceChapterID, &action.TargetChapterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Action not found by ID", zap.Int64("actionID", id))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get action by ID", zap.Int64("actionID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get action by ID %d: %w", id, err)
	}
	return action, nil
}

// Update rewrites the action's text and endpoints.
func (r *pgActionRepository) Update(ctx context.Context, action *models.Action) error {
	query := `UPDATE actions SET text = $2, source_chapter_id = $3, target_chapter_id = $4 WHERE id = $1`
	logFields := []zap.Field{zap.Int64("actionID", action.ID)}
	r.logger.Debug("Updating action", logFields...)

	cmdTag, err := r.db.Exec(ctx, query, action.ID, action.Text, action.SourceChapterID, action.TargetChapterID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Action update references non-existent chapter", logFields...)
			return models.ErrChapterNotFound
		}
		r.logger.Error("Failed to update action", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update action: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent action", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Action updated successfully", logFields...)
	return nil
}

// Delete removes an action edge.
func (r *pgActionRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM actions WHERE id = $1`
	r.logger.Debug("Deleting action", zap.Int64("actionID", id))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete action", zap.Int64("actionID", id), zap.Error(err))
		return fmt.Errorf("failed to delete action: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent action", zap.Int64("actionID", id))
		return models.ErrNotFound
	}

	r.logger.Info("Action deleted successfully", zap.Int64("actionID", id))
	return nil
}

// List returns actions, optionally restricted to one source chapter.
func (r *pgActionRepository) List(ctx context.Context, sourceChapterID *int64) ([]models.Action, error) {
	query := `SELECT id, text, source_chapter_id, target_chapter_id FROM actions`
	args := []any{}
	if sourceChapterID != nil {
		query += ` WHERE source_chapter_id = $1`
		args = append(args, *sourceChapterID)
	}
	query += ` ORDER BY id ASC`
	r.logger.Debug("Listing actions", zap.Int64p("sourceChapterID", sourceChapterID))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query actions", zap.Error(err))
		return nil, fmt.Errorf("failed to query actions: %w", err)
	}
	defer rows.Close()

	actions := make([]models.Action, 0)
	for rows.Next() {
		var action models.Action
		if err := rows.Scan(&action.ID, &action.Text, &action.SourceChapterID, &action.TargetChapterID); err != nil {
			return nil, fmt.Errorf("failed to scan action row: %w", err)
		}
		actions = append(actions, action)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating action rows: %w", err)
	}
	return actions, nil
}
