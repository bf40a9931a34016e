package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"friender-bender/internal/domain"
)

// ProfileUpdate lleva solo los campos a modificar; nil conserva el valor actual.
type ProfileUpdate struct {
	Bio       *string
	Location  *string
	AvatarURL *string
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	Upsert(ctx context.Context, id string, update ProfileUpdate) error
	SetQuizCompleted(ctx context.Context, id string, completed bool) error
	FindDisplayMetadataBatch(ctx context.Context, userIDs []string) (map[string]domain.DisplayMetadata, error)
}

type PgProfileRepository struct {
	pool *pgxpool.Pool
}

func NewPgProfileRepository(pool *pgxpool.Pool) *PgProfileRepository {
	return &PgProfileRepository{pool: pool}
}

func (r *PgProfileRepository) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	const query = `
		SELECT id, COALESCE(bio, ''), COALESCE(location, ''), COALESCE(avatar_url, ''),
			quiz_completed, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Bio,
		&p.Location,
		&p.AvatarURL,
		&p.QuizCompleted,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, ErrNotFound
	}
	return p, err
}

func (r *PgProfileRepository) Upsert(ctx context.Context, id string, update ProfileUpdate) error {
	const query = `
		INSERT INTO profiles (id, bio, location, avatar_url, quiz_completed, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			bio = COALESCE(EXCLUDED.bio, profiles.bio),
			location = COALESCE(EXCLUDED.location, profiles.location),
			avatar_url = COALESCE(EXCLUDED.avatar_url, profiles.avatar_url),
			updated_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query,
		id,
		update.Bio,
		update.Location,
		update.AvatarURL,
		time.Now().UTC(),
	)
	return err
}

func (r *PgProfileRepository) SetQuizCompleted(ctx context.Context, id string, completed bool) error {
	const query = `
		INSERT INTO profiles (id, quiz_completed, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET
			quiz_completed = EXCLUDED.quiz_completed,
			updated_at = EXCLUDED.created_at
	`
	_, err := r.pool.Exec(ctx, query, id, completed, time.Now().UTC())
	return err
}

// FindDisplayMetadataBatch resuelve nombre, avatar y bio de varios usuarios en una sola consulta.
// Los usuarios inexistentes no aparecen en el mapa.
func (r *PgProfileRepository) FindDisplayMetadataBatch(ctx context.Context, userIDs []string) (map[string]domain.DisplayMetadata, error) {
	const query = `
		SELECT u.id, COALESCE(u.name, ''), u.email, COALESCE(u.image, ''),
			COALESCE(p.bio, ''), COALESCE(p.avatar_url, ''), COALESCE(p.location, '')
		FROM users u
		LEFT JOIN profiles p ON p.id = u.id
		WHERE u.id = ANY($1)
	`
	out := make(map[string]domain.DisplayMetadata, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.DisplayMetadata
		if err := rows.Scan(
			&m.UserID,
			&m.Name,
			&m.Email,
			&m.Image,
			&m.Bio,
			&m.AvatarURL,
			&m.Location,
		); err != nil {
			return nil, err
		}
		out[m.UserID] = m
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
