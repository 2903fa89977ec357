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

// Compile-time check to ensure pgCharacterRepository implements CharacterRepository
var _ interfaces.CharacterRepository = (*pgCharacterRepository)(nil)

type pgCharacterRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgCharacterRepository creates a new PostgreSQL-backed CharacterRepository.
func NewPgCharacterRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.CharacterRepository {
	return &pgCharacterRepository{
		db:     db,
		logger: logger.Named("PgCharacterRepo"),
	}
}

// Create inserts a new character into its story.
func (r *pgCharacterRepository) Create(ctx context.Context, character *models.Character) error {
	query := `INSERT INTO characters (story_id, name, description, illustration_url) VALUES ($1, $2, $3, $4) RETURNING id`
	logFields := []zap.Field{zap.Int64("storyID", character.StoryID), zap.String("name", character.Name)}
	r.logger.Debug("Creating new character", logFields...)

	err := r.db.QueryRow(ctx, query,
		character.StoryID,
		character.Name,
		character.Description,
		character.IllustrationURL,
	).Scan(&character.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			r.logger.Warn("Character references non-existent story", logFields...)
			return models.ErrStoryNotFound
		}
		r.logger.Error("Failed to create character", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create character: %w", err)
	}

	r.logger.Info("Character created successfully", append(logFields, zap.Int64("characterID", character.ID))...)
	return nil
}

// GetByID retrieves a character by its ID.
func (r *pgCharacterRepository) GetByID(ctx context.Context, id int64) (*models.Character, error) {
	query := `SELECT id, story_id, name, description, illustration_url FROM characters WHERE id = $1`
	r.logger.Debug("Getting character by ID", zap.Int64("characterID", id))

	character := &models.Character{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&character.ID,
		&character.StoryID,
		&character.Name,
		&character.Description,
		&character.IllustrationURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Character not found by ID", zap.Int64("characterID", id))
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get character by ID", zap.Int64("characterID", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get character by ID %d: %w", id, err)
	}
	return character, nil
}

// Update rewrites the character's descriptive fields.
func (r *pgCharacterRepository) Update(ctx context.Context, character *models.Character) error {
	query := `UPDATE characters SET name = $2, description = $3, illustration_url = $4 WHERE id = $1`
	logFields := []zap.Field{zap.Int64("characterID", character.ID)}
	r.logger.Debug("Updating character", logFields...)

	cmdTag, err := r.db.Exec(ctx, query, character.ID, character.Name, character.Description, character.IllustrationURL)
	if err != nil {
		r.logger.Error("Failed to update character", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to update character: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to update non-existent character", logFields...)
		return models.ErrNotFound
	}

	r.logger.Info("Character updated successfully", logFields...)
	return nil
}

// Delete removes a character.
func (r *pgCharacterRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM characters WHERE id = $1`
	r.logger.Debug("Deleting character", zap.Int64("characterID", id))

	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete character", zap.Int64("characterID", id), zap.Error(err))
		return fmt.Errorf("failed to delete character: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		r.logger.Warn("Attempted to delete non-existent character", zap.Int64("characterID", id))
		return models.ErrNotFound
	}

	r.logger.Info("Character deleted successfully", zap.Int64("characterID", id))
	return nil
}

// List returns characters, optionally restricted to a single story.
func (r *pgCharacterRepository) List(ctx context.Context, storyID *int64) ([]models.Character, error) {
	query := `SELECT id, story_id, name, description, illustration_url FROM characters`
	args := []any{}
	if storyID != nil {
		query += ` WHERE story_id = $1`
		args = append(args, *storyID)
	}
	query += ` ORDER BY id ASC`
	r.logger.Debug("Listing characters", zap.Int64p("storyID", storyID))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query characters", zap.Error(err))
		return nil, fmt.Errorf("failed to query characters: %w", err)
	}
	defer rows.Close()

	characters := make([]models.Character, 0)
	for rows.Next() {
		var character models.Character
		if err := rows.Scan(
			&character.ID,
			&character.StoryID,
			&character.Name,
			&character.Description,
			&character.IllustrationURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan character row: %w", err)
		}
		characters = append(characters, character)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating character rows: %w", err)
	}
	return characters, nil
}
