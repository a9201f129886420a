package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"math-solver/internal/domain"
)

const pgUniqueViolation = "23505"

// PgUserRepository implementa UserRepository guardando cada usuario como documento JSONB.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, doc, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
	`
	doc, err := encodeUser(user)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, user.ID, user.Email, doc)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrUserExists
	}
	return err
}

func (r *PgUserRepository) Save(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (id, email, doc, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (id) DO UPDATE
		SET email = EXCLUDED.email, doc = EXCLUDED.doc, updated_at = now()
	`
	doc, err := encodeUser(user)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query, user.ID, user.Email, doc)
	return err
}

func (r *PgUserRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	return r.queryOne(ctx, `SELECT doc FROM users WHERE id = $1`, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, ErrUserNotFound
	}
	return r.queryOne(ctx, `SELECT doc FROM users WHERE email = $1 ORDER BY updated_at LIMIT 1`, email)
}

func (r *PgUserRepository) GetByIDOrEmail(ctx context.Context, id, email string) (domain.User, error) {
	if id == "" && email == "" {
		return domain.User{}, ErrUserNotFound
	}
	const query = `
		SELECT doc FROM users
		WHERE ($1 <> '' AND id = $1) OR ($2 <> '' AND email = $2)
		ORDER BY updated_at
		LIMIT 1
	`
	return r.queryOne(ctx, query, id, email)
}

func (r *PgUserRepository) GetByVerificationToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUserNotFound
	}
	const query = `
		SELECT doc FROM users
		WHERE doc->>'emailVerificationToken' = $1
		  AND (doc->>'emailVerificationExpires')::timestamptz > $2
		LIMIT 1
	`
	return r.queryOne(ctx, query, token, now.UTC())
}

func (r *PgUserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrUserNotFound
	}
	const query = `
		SELECT doc FROM users
		WHERE doc->>'passwordResetToken' = $1
		  AND (doc->>'passwordResetExpires')::timestamptz > $2
		LIMIT 1
	`
	return r.queryOne(ctx, query, token, now.UTC())
}

// AppendActivity agrega la entrada y conserva las ultimas max en un unico UPDATE.
func (r *PgUserRepository) AppendActivity(ctx context.Context, id string, entry domain.ActivityEntry, max int) error {
	const query = `
		UPDATE users
		SET doc = jsonb_set(
			jsonb_set(
				doc,
				'{activityLog}',
				(
					SELECT COALESCE(jsonb_agg(kept.e ORDER BY kept.ord), '[]'::jsonb)
					FROM (
						SELECT t.e, t.ord
						FROM jsonb_array_elements(COALESCE(doc->'activityLog', '[]'::jsonb) || jsonb_build_array($2::jsonb))
							WITH ORDINALITY AS t(e, ord)
						ORDER BY t.ord DESC
						LIMIT $3
					) AS kept
				)
			),
			'{lastActive}',
			to_jsonb($4::timestamptz)
		),
		updated_at = now()
		WHERE id = $1
	`
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode activity: %w", err)
	}
	tag, err := r.pool.Exec(ctx, query, id, string(payload), max, entry.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("append activity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PgUserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT doc FROM users ORDER BY (doc->>'registrationDate')::timestamptz`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		u, err := decodeUser(raw)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) queryOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	return decodeUser(raw)
}

func encodeUser(u domain.User) (string, error) {
	payload, err := json.Marshal(withEmptySlices(u))
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(payload), nil
}

func decodeUser(raw []byte) (domain.User, error) {
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}
