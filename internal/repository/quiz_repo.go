package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"friender-bender/internal/domain"
)

// QuizRepository define el contrato de persistencia para respuestas del quiz.
type QuizRepository interface {
	Create(ctx context.Context, quiz domain.QuizRecord) error
	FindLatestByUserID(ctx context.Context, userID string) (domain.QuizRecord, error)
	ListExcludingUser(ctx context.Context, userID string) ([]domain.QuizRecord, error)
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}

type PgQuizRepository struct {
	pool *pgxpool.Pool
}

func NewPgQuizRepository(pool *pgxpool.Pool) *PgQuizRepository {
	return &PgQuizRepository{pool: pool}
}

const quizColumns = `
	id, user_id, interests, COALESCE(social_style, ''), friendship_values,
	COALESCE(communication_style, ''), hangout_vibe, availability, dealbreakers,
	COALESCE(bio, ''), created_at
`

func (r *PgQuizRepository) Create(ctx context.Context, quiz domain.QuizRecord) error {
	const query = `
		INSERT INTO quiz_responses (
			id, user_id, interests, social_style, friendship_values,
			communication_style, hangout_vibe, availability, dealbreakers, bio, created_at
		)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11)
	`
	_, err := r.pool.Exec(ctx, query,
		quiz.ID,
		quiz.UserID,
		nonNil(quiz.Interests),
		string(quiz.SocialStyle),
		nonNil(quiz.FriendshipValues),
		string(quiz.CommunicationStyle),
		nonNil(quiz.HangoutVibe),
		quiz.Availability,
		nonNil(quiz.Dealbreakers),
		quiz.Bio,
		quiz.CreatedAt,
	)
	return err
}

func (r *PgQuizRepository) FindLatestByUserID(ctx context.Context, userID string) (domain.QuizRecord, error) {
	query := `SELECT ` + quizColumns + `
		FROM quiz_responses
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT 1
	`
	quiz, err := scanQuiz(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizRecord{}, ErrNotFound
	}
	return quiz, err
}

// ListExcludingUser devuelve todos los quizzes de otros usuarios, posiblemente varios por usuario.
func (r *PgQuizRepository) ListExcludingUser(ctx context.Context, userID string) ([]domain.QuizRecord, error) {
	query := `SELECT ` + quizColumns + `
		FROM quiz_responses
		WHERE user_id <> $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quizzes []domain.QuizRecord
	for rows.Next() {
		quiz, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, quiz)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *PgQuizRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	const query = `DELETE FROM quiz_responses WHERE user_id = $1`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanQuiz(row pgx.Row) (domain.QuizRecord, error) {
	var q domain.QuizRecord
	var socialStyle, commStyle string
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.Interests,
		&socialStyle,
		&q.FriendshipValues,
		&commStyle,
		&q.HangoutVibe,
		&q.Availability,
		&q.Dealbreakers,
		&q.Bio,
		&q.CreatedAt,
	)
	if err != nil {
		return domain.QuizRecord{}, err
	}
	q.SocialStyle = domain.SocialStyle(socialStyle)
	q.CommunicationStyle = domain.CommunicationStyle(commStyle)
	return q, nil
}

// nonNil evita insertar NULL en columnas TEXT[] NOT NULL.
func nonNil(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
