package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"friender-bender/internal/domain"
	"friender-bender/internal/metrics"
	"friender-bender/internal/repository"
)

const (
	maxBioLength          = 500
	maxFriendshipValues   = 2
	defaultSubmitWindow   = time.Hour
	defaultSubmitsPerHour = 10
)

// QuizService valida y guarda respuestas del quiz. Es el único punto donde se exige el vocabulario:
// el scorer acepta cualquier etiqueta.
type QuizService struct {
	logger   *zap.Logger
	quizzes  repository.QuizRepository
	profiles repository.ProfileRepository
	limiter  SubmissionRateLimiter
	now      func() time.Time
}

func NewQuizService(logger *zap.Logger, quizzes repository.QuizRepository, profiles repository.ProfileRepository, limiter SubmissionRateLimiter) *QuizService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limiter == nil {
		limiter = NewMemoryRateLimiter(defaultSubmitWindow, defaultSubmitsPerHour)
	}
	return &QuizService{
		logger:   logger,
		quizzes:  quizzes,
		profiles: profiles,
		limiter:  limiter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type SubmitQuizInput struct {
	Interests          []string
	SocialStyle        string
	FriendshipValues   []string
	CommunicationStyle string
	HangoutVibe        []string
	Availability       domain.Availability
	Dealbreakers       []string
	Bio                string
}

// Submit guarda un nuevo registro y marca el perfil como quiz completado.
func (s *QuizService) Submit(ctx context.Context, userID string, input SubmitQuizInput) (domain.QuizRecord, error) {
	if s.quizzes == nil || s.profiles == nil {
		return domain.QuizRecord{}, errors.New("quiz service not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.QuizRecord{}, ErrUserNotFound
	}

	quiz, err := buildQuiz(input)
	if err != nil {
		metrics.QuizSubmissionsTotal.WithLabelValues("invalid").Inc()
		return domain.QuizRecord{}, err
	}
	if !s.limiter.Allow(userID) {
		metrics.QuizSubmissionsTotal.WithLabelValues("rate_limited").Inc()
		return domain.QuizRecord{}, ErrRateLimited
	}

	quiz.ID = uuid.NewString()
	quiz.UserID = userID
	quiz.CreatedAt = s.now()

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("create quiz: %w", err)
	}
	if err := s.profiles.SetQuizCompleted(ctx, userID, true); err != nil {
		return domain.QuizRecord{}, fmt.Errorf("mark quiz completed: %w", err)
	}

	metrics.QuizSubmissionsTotal.WithLabelValues("accepted").Inc()
	s.logger.Info("quiz submitted", zap.String("user_id", userID), zap.String("quiz_id", quiz.ID))
	return quiz, nil
}

// Latest devuelve el último quiz del usuario o nil si nunca envió uno.
func (s *QuizService) Latest(ctx context.Context, userID string) (*domain.QuizRecord, error) {
	quiz, err := s.quizzes.FindLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

// Delete borra todos los quizzes del usuario para que pueda rehacerlo.
func (s *QuizService) Delete(ctx context.Context, userID string) (int64, error) {
	deleted, err := s.quizzes.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete quizzes: %w", err)
	}
	if err := s.profiles.SetQuizCompleted(ctx, userID, false); err != nil {
		return 0, fmt.Errorf("mark quiz pending: %w", err)
	}
	s.logger.Info("quiz deleted", zap.String("user_id", userID), zap.Int64("deleted", deleted))
	return deleted, nil
}

func buildQuiz(input SubmitQuizInput) (domain.QuizRecord, error) {
	interests, err := vocabularyTags("interest", input.Interests, domain.InterestTags)
	if err != nil {
		return domain.QuizRecord{}, err
	}
	if len(interests) == 0 {
		return domain.QuizRecord{}, fmt.Errorf("%w: at least one interest is required", ErrInvalidQuiz)
	}

	social := domain.SocialStyle(normalizeEnum(input.SocialStyle))
	if !isSocialStyle(string(social)) {
		return domain.QuizRecord{}, fmt.Errorf("%w: unknown social style %q", ErrInvalidQuiz, input.SocialStyle)
	}

	values, err := vocabularyTags("friendship value", input.FriendshipValues, domain.FriendshipValueTags)
	if err != nil {
		return domain.QuizRecord{}, err
	}
	if len(values) == 0 || len(values) > maxFriendshipValues {
		return domain.QuizRecord{}, fmt.Errorf("%w: pick between 1 and %d friendship values", ErrInvalidQuiz, maxFriendshipValues)
	}

	comm := domain.CommunicationStyle(normalizeEnum(input.CommunicationStyle))
	if !isCommunicationStyle(string(comm)) {
		return domain.QuizRecord{}, fmt.Errorf("%w: unknown communication style %q", ErrInvalidQuiz, input.CommunicationStyle)
	}

	vibes, err := vocabularyTags("hangout vibe", input.HangoutVibe, domain.HangoutVibeTags)
	if err != nil {
		return domain.QuizRecord{}, err
	}
	if len(vibes) == 0 {
		return domain.QuizRecord{}, fmt.Errorf("%w: at least one hangout vibe is required", ErrInvalidQuiz)
	}

	dealbreakers, err := vocabularyTags("dealbreaker", input.Dealbreakers, domain.DealbreakerTags)
	if err != nil {
		return domain.QuizRecord{}, err
	}

	availability, err := validAvailability(input.Availability)
	if err != nil {
		return domain.QuizRecord{}, err
	}

	bio := strings.TrimSpace(input.Bio)
	if utf8.RuneCountInString(bio) > maxBioLength {
		return domain.QuizRecord{}, fmt.Errorf("%w: bio longer than %d characters", ErrInvalidQuiz, maxBioLength)
	}

	return domain.QuizRecord{
		Interests:          interests,
		SocialStyle:        social,
		FriendshipValues:   values,
		CommunicationStyle: comm,
		HangoutVibe:        vibes,
		Availability:       availability,
		Dealbreakers:       dealbreakers,
		Bio:                bio,
	}, nil
}

func vocabularyTags(kind string, tags []string, allowed []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, raw := range uniqueTags(tags) {
		tag := normalizeEnum(raw)
		if !hasTag(allowed, tag) {
			return nil, fmt.Errorf("%w: unknown %s %q", ErrInvalidQuiz, kind, raw)
		}
		if !hasTag(out, tag) {
			out = append(out, tag)
		}
	}
	return out, nil
}

func validAvailability(a domain.Availability) (*domain.Availability, error) {
	preset := strings.TrimSpace(a.Preset)
	if preset != "" && !hasTag(domain.AvailabilityPresets, preset) {
		return nil, fmt.Errorf("%w: unknown availability preset %q", ErrInvalidQuiz, a.Preset)
	}
	days := uniqueTags(a.CustomDays)
	for _, d := range days {
		if !hasTag(domain.AvailabilityDays, d) {
			return nil, fmt.Errorf("%w: unknown availability day %q", ErrInvalidQuiz, d)
		}
	}
	times := uniqueTags(a.CustomTimes)
	for _, t := range times {
		if !hasTag(domain.AvailabilityTimes, t) {
			return nil, fmt.Errorf("%w: unknown availability time %q", ErrInvalidQuiz, t)
		}
	}
	if preset == "" && (len(days) == 0 || len(times) == 0) {
		return nil, fmt.Errorf("%w: availability needs a preset or custom days and times", ErrInvalidQuiz)
	}
	return &domain.Availability{Preset: preset, CustomDays: days, CustomTimes: times}, nil
}
