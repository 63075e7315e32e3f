package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/Said78z/Sui-Lausanne-Hackathon-sub004/internal/models"
)

// ErrTokenConflict is returned when a token value is already stored.
var ErrTokenConflict = errors.New("token already exists")

// TokenRepository persists opaque tokens. Lookups of missing rows return (nil, nil).
type TokenRepository interface {
	// CreateToken inserts token as given, without revoking siblings. Reset tokens go
	// through ReplaceOwnerToken; this serves seeding and other token types.
	CreateToken(ctx context.Context, token *models.Token) error

	// GetByToken fetches a row by its exact token value.
	GetByToken(ctx context.Context, raw string) (*models.Token, error)

	// DeleteByID removes one row and returns what was removed.
	DeleteByID(ctx context.Context, id uuid.UUID) (*models.Token, error)

	DeleteByOwnerAndType(ctx context.Context, ownerID uuid.UUID, tokenType string) (int64, error)

	// ReplaceOwnerToken deletes every token of token.Type owned by token.OwnedByID and
	// inserts token, atomically and serialized per (owner, type).
	ReplaceOwnerToken(ctx context.Context, token *models.Token) error

	// DeleteExpiredBefore removes rows whose expiry is strictly before cutoff.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type tokenRepository struct {
	db DB
}

func NewTokenRepository(db DB) TokenRepository {
	return &tokenRepository{db: db}
}

const tokenColumns = `id, "ownedById", token, type, scopes, "deviceName", "deviceIp", "createdAt", "updatedAt", "expiresAt"`

func scanToken(row pgx.Row) (*models.Token, error) {
	var t models.Token
	err := row.Scan(
		&t.ID,
		&t.OwnedByID,
		&t.Token,
		&t.Type,
		&t.Scopes,
		&t.DeviceName,
		&t.DeviceIP,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func insertToken(ctx context.Context, db DB, token *models.Token) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	query := `
        INSERT INTO tokens (id, "ownedById", token, type, scopes, "deviceName", "deviceIp", "createdAt", "updatedAt", "expiresAt")
        VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW(), $8)
        RETURNING "createdAt", "updatedAt"
    `
	err := db.QueryRow(ctx, query,
		token.ID,
		token.OwnedByID,
		token.Token,
		token.Type,
		token.Scopes,
		token.DeviceName,
		token.DeviceIP,
		token.ExpiresAt,
	).Scan(&token.CreatedAt, &token.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenConflict
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *tokenRepository) CreateToken(ctx context.Context, token *models.Token) error {
	return insertToken(ctx, r.db, token)
}

func (r *tokenRepository) GetByToken(ctx context.Context, raw string) (*models.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE token = $1`
	t, err := scanToken(r.db.QueryRow(ctx, query, raw))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get token: %w", err)
	}
	return t, nil
}

func (r *tokenRepository) DeleteByID(ctx context.Context, id uuid.UUID) (*models.Token, error) {
	query := `DELETE FROM tokens WHERE id = $1 RETURNING ` + tokenColumns
	t, err := scanToken(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete token: %w", err)
	}
	return t, nil
}

func (r *tokenRepository) DeleteByOwnerAndType(ctx context.Context, ownerID uuid.UUID, tokenType string) (int64, error) {
	return deleteByOwnerAndType(ctx, r.db, ownerID, tokenType)
}

func deleteByOwnerAndType(ctx context.Context, db DB, ownerID uuid.UUID, tokenType string) (int64, error) {
	query := `DELETE FROM tokens WHERE "ownedById" = $1 AND type = $2`
	tag, err := db.Exec(ctx, query, ownerID, tokenType)
	if err != nil {
		return 0, fmt.Errorf("delete tokens of type %s: %w", tokenType, err)
	}
	return tag.RowsAffected(), nil
}

func (r *tokenRepository) ReplaceOwnerToken(ctx context.Context, token *models.Token) error {
	lockKey := token.OwnedByID.String() + ":" + token.Type

	return WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return fmt.Errorf("lock owner tokens: %w", err)
		}
		if _, err := deleteByOwnerAndType(ctx, tx, token.OwnedByID, token.Type); err != nil {
			return err
		}
		return insertToken(ctx, tx, token)
	})
}

func (r *tokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM tokens WHERE "expiresAt" < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
