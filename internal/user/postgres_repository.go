package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/shinonomekazan/akashic-game-drive/internal/database"
)

// PostgresRepository implements Repository on the users table.
type PostgresRepository struct {
	conn database.Conn
}

// NewPostgresRepository creates a new Repository backed by the given connection.
func NewPostgresRepository(conn database.Conn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const profileColumns = "uid, name, photo_url, created_at, updated_at"

// Store creates or updates the profile for uid inside a transaction.
func (r *PostgresRepository) Store(ctx context.Context, uid string, in StoreInput) (*Profile, error) {
	var p *Profile
	err := database.WithTx(ctx, r.conn, func(tx pgx.Tx) error {
		var existing string
		err := tx.QueryRow(ctx, `SELECT uid FROM users WHERE uid = $1 FOR UPDATE`, uid).Scan(&existing)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			p, err = r.insert(ctx, tx, uid, in)
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
			// A concurrent registration won the insert; update its row instead.
		case err != nil:
			return fmt.Errorf("reading user: %w", err)
		}
		p, err = r.update(ctx, tx, uid, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) insert(ctx context.Context, tx pgx.Tx, uid string, in StoreInput) (*Profile, error) {
	query := `
		INSERT INTO users (uid, name, photo_url, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (uid) DO NOTHING
		RETURNING ` + profileColumns

	p, err := scanProfile(tx.QueryRow(ctx, query, uid, in.Name, in.PhotoURL))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return p, err
}

func (r *PostgresRepository) update(ctx context.Context, tx pgx.Tx, uid string, in StoreInput) (*Profile, error) {
	setClauses := []string{"name = $1"}
	args := []any{in.Name}
	argIdx := 2

	if in.PhotoURL != nil {
		setClauses = append(setClauses, fmt.Sprintf("photo_url = $%d", argIdx))
		args = append(args, *in.PhotoURL)
		argIdx++
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, uid)

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE uid = $%d
		RETURNING %s`, strings.Join(setClauses, ", "), argIdx, profileColumns)

	p, err := scanProfile(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return p, nil
}

// Get retrieves the profile for uid.
func (r *PostgresRepository) Get(ctx context.Context, uid string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE uid = $1`

	p, err := scanProfile(r.conn.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return p, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.UID, &p.Name, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
