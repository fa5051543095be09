package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/shinonomekazan/akashic-game-drive/internal/database"
)

// PostgresRepository implements Repository on the contents table.
type PostgresRepository struct {
	conn database.Conn
}

// NewPostgresRepository creates a new Repository backed by the given connection.
func NewPostgresRepository(conn database.Conn) *PostgresRepository {
	return &PostgresRepository{conn: conn}
}

const contentColumns = "id, owner_id, title, description, zip_url, thumbnail_url, created_at, updated_at"

// Create inserts a new content record under a generated id.
func (r *PostgresRepository) Create(ctx context.Context, nc NewContent) (*Content, error) {
	query := `
		INSERT INTO contents (id, owner_id, title, description, zip_url, thumbnail_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + contentColumns

	c, err := scanContent(r.conn.QueryRow(ctx, query,
		uuid.NewString(),
		nc.OwnerID,
		nc.Title,
		nc.Description,
		nc.ZipURL,
		nc.ThumbnailURL,
	))
	if err != nil {
		return nil, fmt.Errorf("inserting content: %w", err)
	}
	return c, nil
}

// Update locks the row, checks ownership and writes the supplied fields.
func (r *PostgresRepository) Update(ctx context.Context, id, ownerID string, fields UpdateFields) error {
	return database.WithTx(ctx, r.conn, func(tx pgx.Tx) error {
		var storedOwner string
		err := tx.QueryRow(ctx, `SELECT owner_id FROM contents WHERE id = $1 FOR UPDATE`, id).Scan(&storedOwner)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("reading content: %w", err)
		}
		if storedOwner != ownerID {
			return ErrNotOwner
		}

		setClauses := []string{"title = $1"}
		args := []any{fields.Title}
		argIdx := 2

		if fields.Description != nil {
			setClauses = append(setClauses, fmt.Sprintf("description = $%d", argIdx))
			args = append(args, *fields.Description)
			argIdx++
		}
		if fields.ZipURL != nil {
			setClauses = append(setClauses, fmt.Sprintf("zip_url = $%d", argIdx))
			args = append(args, *fields.ZipURL)
			argIdx++
		}
		if fields.ThumbnailURL != nil {
			setClauses = append(setClauses, fmt.Sprintf("thumbnail_url = $%d", argIdx))
			args = append(args, *fields.ThumbnailURL)
			argIdx++
		}

		setClauses = append(setClauses, "updated_at = NOW()")
		args = append(args, id)

		query := fmt.Sprintf(`
			UPDATE contents
			SET %s
			WHERE id = $%d`, strings.Join(setClauses, ", "), argIdx)

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("updating content: %w", err)
		}
		return nil
	})
}

// Get retrieves a single content record by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Content, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE id = $1`

	c, err := scanContent(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying content: %w", err)
	}
	return c, nil
}

// ListByOwner retrieves every content record owned by ownerID, newest first.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Content, error) {
	query := `
		SELECT ` + contentColumns + `
		FROM contents
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing contents: %w", err)
	}
	defer rows.Close()

	contents := []Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning content row: %w", err)
		}
		contents = append(contents, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content rows: %w", err)
	}

	return contents, nil
}

// CountByOwner counts ownerID's records without scanning past limit.
func (r *PostgresRepository) CountByOwner(ctx context.Context, ownerID string, limit int) (int, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT 1 FROM contents WHERE owner_id = $1 LIMIT $2
		) AS owned`

	var n int
	if err := r.conn.QueryRow(ctx, query, ownerID, limit).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting contents: %w", err)
	}
	return n, nil
}

func scanContent(row pgx.Row) (*Content, error) {
	var c Content
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.Title, &c.Description,
		&c.ZipURL, &c.ThumbnailURL,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
