package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"friender-bender/internal/domain"
	"friender-bender/internal/metrics"
	"friender-bender/internal/repository"
)

const (
	defaultMatchName = "Friend"
	defaultMatchBio  = "Ready for an adventure!"
	defaultFanout    = 8
)

// MatchService arma el ranking de compatibilidad de un usuario contra el resto.
type MatchService struct {
	logger  *zap.Logger
	quizzes repository.QuizRepository
	display repository.DisplayMetadataLookup
	scorer  CompatibilityScorer
	fanout  int
}

func NewMatchService(logger *zap.Logger, quizzes repository.QuizRepository, display repository.DisplayMetadataLookup, fanout int) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fanout <= 0 {
		fanout = defaultFanout
	}
	return &MatchService{
		logger:  logger,
		quizzes: quizzes,
		display: display,
		scorer:  DefaultCompatibilityScorer,
		fanout:  fanout,
	}
}

// RankMatches devuelve los candidatos ordenados por compatibilidad descendente.
// Un usuario sin quiz no tiene matches. Los candidatos sin datos de presentación se omiten.
func (s *MatchService) RankMatches(ctx context.Context, viewerID string) ([]domain.Match, error) {
	start := time.Now()
	defer func() { metrics.RankDuration.Observe(time.Since(start).Seconds()) }()

	viewerQuiz, err := s.latestQuiz(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewerQuiz == nil {
		return []domain.Match{}, nil
	}

	others, err := s.quizzes.ListExcludingUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	candidates := LatestQuizPerUser(others)

	// Cada goroutine escribe solo su posición; el orden de candidatos define el desempate.
	ranked := make([]*domain.Match, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i := range candidates {
		i := i
		candidate := &candidates[i]
		g.Go(func() error {
			meta, err := s.display.FindDisplayMetadata(gctx, candidate.UserID)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				metrics.CandidatesTotal.WithLabelValues("dropped").Inc()
				s.logger.Warn("match candidate dropped",
					zap.String("viewer_id", viewerID),
					zap.String("candidate_id", candidate.UserID),
					zap.Bool("not_found", errors.Is(err, repository.ErrNotFound)),
					zap.Error(err),
				)
				return nil
			}

			res := s.scorer.Evaluate(viewerQuiz, candidate)
			metrics.CandidatesTotal.WithLabelValues("ranked").Inc()
			metrics.CompatibilityScores.Observe(float64(res.Score))
			ranked[i] = &domain.Match{
				ID:                 "match-" + candidate.UserID,
				User:               matchUser(meta, candidate),
				CompatibilityScore: res.Score,
				SharedInterests:    res.SharedInterests,
				VibeMatch:          res.VibeMatch,
				MatchReason:        res.MatchReason,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make([]domain.Match, 0, len(ranked))
	for _, m := range ranked {
		if m != nil {
			matches = append(matches, *m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CompatibilityScore > matches[j].CompatibilityScore
	})

	s.logger.Debug("matches ranked",
		zap.String("viewer_id", viewerID),
		zap.Int("candidates", len(candidates)),
		zap.Int("ranked", len(matches)),
	)
	return matches, nil
}

// MatchProfile calcula la compatibilidad con un único candidato y expone sus respuestas.
// Solo falla con ErrUserNotFound si el candidato no existe; la falta de quiz da puntaje neutral.
func (s *MatchService) MatchProfile(ctx context.Context, viewerID, candidateID string) (domain.MatchProfile, error) {
	meta, err := s.display.FindDisplayMetadata(ctx, candidateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.MatchProfile{}, ErrUserNotFound
		}
		return domain.MatchProfile{}, err
	}

	viewerQuiz, err := s.latestQuiz(ctx, viewerID)
	if err != nil {
		return domain.MatchProfile{}, err
	}
	candidateQuiz, err := s.latestQuiz(ctx, candidateID)
	if err != nil {
		return domain.MatchProfile{}, err
	}

	res := s.scorer.Evaluate(viewerQuiz, candidateQuiz)
	return domain.MatchProfile{
		User:               matchUser(meta, candidateQuiz),
		Quiz:               candidateQuiz.Answers(),
		CompatibilityScore: res.Score,
		SharedInterests:    res.SharedInterests,
		VibeMatch:          res.VibeMatch,
		MatchReason:        res.MatchReason,
		Breakdown:          res.Breakdown,
	}, nil
}

func (s *MatchService) latestQuiz(ctx context.Context, userID string) (*domain.QuizRecord, error) {
	quiz, err := s.quizzes.FindLatestByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

// LatestQuizPerUser reduce a un registro por usuario conservando el de mayor CreatedAt.
// Ante empate gana el primero visto; el resultado sigue el orden de primera aparición.
func LatestQuizPerUser(records []domain.QuizRecord) []domain.QuizRecord {
	index := make(map[string]int, len(records))
	out := make([]domain.QuizRecord, 0, len(records))
	for _, rec := range records {
		pos, ok := index[rec.UserID]
		if !ok {
			index[rec.UserID] = len(out)
			out = append(out, rec)
			continue
		}
		if rec.CreatedAt.After(out[pos].CreatedAt) {
			out[pos] = rec
		}
	}
	return out
}

func matchUser(meta domain.DisplayMetadata, quiz *domain.QuizRecord) domain.MatchUser {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = defaultMatchName
	}
	bio := meta.Bio
	if strings.TrimSpace(bio) == "" && quiz != nil {
		bio = quiz.Bio
	}
	if strings.TrimSpace(bio) == "" {
		bio = defaultMatchBio
	}
	return domain.MatchUser{
		ID:        meta.UserID,
		Name:      name,
		Email:     meta.Email,
		Image:     meta.Image,
		Bio:       bio,
		AvatarURL: meta.AvatarURL,
		Location:  meta.Location,
	}
}
