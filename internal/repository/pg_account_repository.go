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

// Compile-time check to ensure pgAccountRepository implements AccountRepository
var _ interfaces.AccountRepository = (*pgAccountRepository)(nil)

type pgAccountRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgAccountRepository creates a new PostgreSQL-backed AccountRepository.
func NewPgAccountRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.AccountRepository {
	return &pgAccountRepository{
		db:     db,
		logger: logger.Named("PgAccountRepo"),
	}
}

const accountFields = `id, email, nickname, password_hash, created_at, updated_at`

// Create inserts a new account. Unique-constraint violations are mapped onto
// ErrEmailTaken / ErrNicknameTaken so callers can report field-level detail.
func (r *pgAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (email, nickname, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`
	logFields := []zap.Field{zap.String("email", account.Email), zap.String("nickname", account.Nickname)}
	r.logger.Debug("Executing query", append(logFields, zap.String("query", query))...)

	err := r.db.QueryRow(ctx, query, account.Email, account.Nickname, account.PasswordHash).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			switch pgErr.ConstraintName {
			case "accounts_email_key":
				r.logger.Warn("Attempted to create duplicate account by email", logFields...)
				return models.ErrEmailTaken
			case "accounts_nickname_key":
				r.logger.Warn("Attempted to create duplicate account by nickname", logFields...)
				return models.ErrNicknameTaken
			default:
				r.logger.Warn("Account unique constraint violation", append(logFields, zap.String("constraint", pgErr.ConstraintName))...)
				return models.ErrEmailTaken
			}
		}
		r.logger.Error("Failed to create account in postgres", append(logFields, zap.Error(err))...)
		return fmt.Errorf("failed to create account in postgres: %w", err)
	}

	r.logger.Info("Account created successfully", append(logFields, zap.Int64("accountID", account.ID))...)
	return nil
}

// GetByID retrieves an account by its ID.
func (r *pgAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE id = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.Int64("id", id))
	return r.scanOne(ctx, query, id)
}

// GetByEmail retrieves an account by its email.
func (r *pgAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE email = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("email", email))
	return r.scanOne(ctx, query, email)
}

// GetByNickname retrieves an account by its nickname.
func (r *pgAccountRepository) GetByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	query := `SELECT ` + accountFields + ` FROM accounts WHERE nickname = $1`
	r.logger.Debug("Executing query", zap.String("query", query), zap.String("nickname", nickname))
	return r.scanOne(ctx, query, nickname)
}

func (r *pgAccountRepository) scanOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	account := &models.Account{}
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Nickname,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Account not found", zap.Any("arg", arg))
			return nil, models.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account from postgres", zap.Error(err))
		return nil, fmt.Errorf("failed to get account from postgres: %w", err)
	}
	return account, nil
}
