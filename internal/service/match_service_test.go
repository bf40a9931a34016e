package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"friender-bender/internal/domain"
	"friender-bender/internal/repository"
)

type fakeQuizRepo struct {
	mu      sync.Mutex
	records []domain.QuizRecord
	listErr error
	created []domain.QuizRecord
	deleted []string
}

func (f *fakeQuizRepo) Create(_ context.Context, quiz domain.QuizRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, quiz)
	f.records = append(f.records, quiz)
	return nil
}

func (f *fakeQuizRepo) FindLatestByUserID(_ context.Context, userID string) (domain.QuizRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *domain.QuizRecord
	for i := range f.records {
		rec := &f.records[i]
		if rec.UserID != userID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return domain.QuizRecord{}, repository.ErrNotFound
	}
	return *latest, nil
}

func (f *fakeQuizRepo) ListExcludingUser(_ context.Context, userID string) ([]domain.QuizRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.QuizRecord
	for _, rec := range f.records {
		if rec.UserID != userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeQuizRepo) DeleteByUserID(_ context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.records[:0]
	var n int64
	for _, rec := range f.records {
		if rec.UserID == userID {
			n++
			continue
		}
		kept = append(kept, rec)
	}
	f.records = kept
	f.deleted = append(f.deleted, userID)
	return n, nil
}

type fakeDisplayLookup struct {
	rows   map[string]domain.DisplayMetadata
	failOn map[string]error
}

func (f *fakeDisplayLookup) FindDisplayMetadata(ctx context.Context, userID string) (domain.DisplayMetadata, error) {
	if err := ctx.Err(); err != nil {
		return domain.DisplayMetadata{}, err
	}
	if err, ok := f.failOn[userID]; ok {
		return domain.DisplayMetadata{}, err
	}
	m, ok := f.rows[userID]
	if !ok {
		return domain.DisplayMetadata{}, repository.ErrNotFound
	}
	return m, nil
}

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func quizFor(userID string, q *domain.QuizRecord, at time.Time) domain.QuizRecord {
	out := *q
	out.UserID = userID
	out.CreatedAt = at
	return out
}

func rankingFixture() (*fakeQuizRepo, *fakeDisplayLookup) {
	viewer, scenario := scenarioQuizzes()
	identical := *viewer

	repo := &fakeQuizRepo{records: []domain.QuizRecord{
		quizFor("viewer", viewer, t0),
		quizFor("e1", &domain.QuizRecord{}, t0),
		quizFor("c2", scenario, t0),
		quizFor("e2", &domain.QuizRecord{}, t0),
		quizFor("c1", &identical, t0),
	}}
	display := &fakeDisplayLookup{rows: map[string]domain.DisplayMetadata{
		"c1": {UserID: "c1", Name: "Cami", Bio: "Loves brunch"},
		"c2": {UserID: "c2", Name: "Dani"},
		"e1": {UserID: "e1", Name: "Eli"},
		"e2": {UserID: "e2", Name: "Emi"},
	}}
	return repo, display
}

func matchIDs(matches []domain.Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.User.ID
	}
	return ids
}

func TestRankMatches_ViewerWithoutQuiz(t *testing.T) {
	repo, display := rankingFixture()
	svc := NewMatchService(zap.NewNop(), repo, display, 4)

	matches, err := svc.RankMatches(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestRankMatches_SortedWithStableTies(t *testing.T) {
	repo, display := rankingFixture()
	svc := NewMatchService(zap.NewNop(), repo, display, 2)

	matches, err := svc.RankMatches(context.Background(), "viewer")
	require.NoError(t, err)
	require.Len(t, matches, 4)

	assert.Equal(t, []string{"c1", "c2", "e1", "e2"}, matchIDs(matches))
	assert.Equal(t, 98, matches[0].CompatibilityScore)
	assert.Equal(t, 65, matches[1].CompatibilityScore)
	assert.Equal(t, MinCompatibilityScore, matches[2].CompatibilityScore)
	assert.Equal(t, MinCompatibilityScore, matches[3].CompatibilityScore)

	assert.Equal(t, "match-c2", matches[1].ID)
	assert.Equal(t, []string{"brunch", "hiking"}, matches[1].SharedInterests)
	require.NotNil(t, matches[1].VibeMatch)
	assert.Equal(t, "chill", *matches[1].VibeMatch)
	assert.Equal(t, "You share 3 interests!", matches[0].MatchReason)

	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].CompatibilityScore, matches[i].CompatibilityScore)
	}

	for i := 0; i < 10; i++ {
		again, err := svc.RankMatches(context.Background(), "viewer")
		require.NoError(t, err)
		assert.Equal(t, matches, again)
	}
}

func TestRankMatches_UsesLatestQuizPerCandidate(t *testing.T) {
	viewer, scenario := scenarioQuizzes()
	identical := *viewer
	repo := &fakeQuizRepo{records: []domain.QuizRecord{
		quizFor("viewer", viewer, t0),
		quizFor("c1", &identical, t0.Add(time.Hour)),
		quizFor("c1", scenario, t0),
		quizFor("c2", &identical, t0),
		quizFor("c2", scenario, t0.Add(2*time.Hour)),
	}}
	display := &fakeDisplayLookup{rows: map[string]domain.DisplayMetadata{
		"c1": {UserID: "c1", Name: "Cami"},
		"c2": {UserID: "c2", Name: "Dani"},
	}}
	svc := NewMatchService(zap.NewNop(), repo, display, 4)

	matches, err := svc.RankMatches(context.Background(), "viewer")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"c1", "c2"}, matchIDs(matches))
	assert.Equal(t, 98, matches[0].CompatibilityScore)
	assert.Equal(t, 65, matches[1].CompatibilityScore)
}

func TestRankMatches_DropsCandidatesWithoutMetadata(t *testing.T) {
	repo, display := rankingFixture()
	delete(display.rows, "c2")
	display.failOn = map[string]error{"e1": errors.New("profile store timeout")}
	svc := NewMatchService(zap.NewNop(), repo, display, 1)

	matches, err := svc.RankMatches(context.Background(), "viewer")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "e2"}, matchIDs(matches))
}

func TestRankMatches_PropagatesStoreErrorsAndCancellation(t *testing.T) {
	repo, display := rankingFixture()
	repo.listErr = errors.New("db down")
	svc := NewMatchService(zap.NewNop(), repo, display, 4)

	_, err := svc.RankMatches(context.Background(), "viewer")
	assert.Error(t, err)

	repo, display = rankingFixture()
	svc = NewMatchService(zap.NewNop(), repo, display, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.RankMatches(ctx, "viewer")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRankMatches_DisplayFallbacks(t *testing.T) {
	viewer, scenario := scenarioQuizzes()
	withBio := *scenario
	withBio.Bio = "Weekend hiker"
	repo := &fakeQuizRepo{records: []domain.QuizRecord{
		quizFor("viewer", viewer, t0),
		quizFor("profile-bio", scenario, t0),
		quizFor("quiz-bio", &withBio, t0),
		quizFor("no-bio", scenario, t0),
	}}
	display := &fakeDisplayLookup{rows: map[string]domain.DisplayMetadata{
		"profile-bio": {UserID: "profile-bio", Name: "Pia", Bio: "From my profile"},
		"quiz-bio":    {UserID: "quiz-bio", Name: "Quin"},
		"no-bio":      {UserID: "no-bio"},
	}}
	svc := NewMatchService(zap.NewNop(), repo, display, 4)

	matches, err := svc.RankMatches(context.Background(), "viewer")
	require.NoError(t, err)
	require.Len(t, matches, 3)

	byID := make(map[string]domain.MatchUser)
	for _, m := range matches {
		byID[m.User.ID] = m.User
	}
	assert.Equal(t, "From my profile", byID["profile-bio"].Bio)
	assert.Equal(t, "Weekend hiker", byID["quiz-bio"].Bio)
	assert.Equal(t, "Ready for an adventure!", byID["no-bio"].Bio)
	assert.Equal(t, "Friend", byID["no-bio"].Name)
}

func TestMatchProfile(t *testing.T) {
	t.Run("unknown candidate", func(t *testing.T) {
		repo, display := rankingFixture()
		svc := NewMatchService(zap.NewNop(), repo, display, 4)
		_, err := svc.MatchProfile(context.Background(), "viewer", "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("candidate without quiz", func(t *testing.T) {
		repo, display := rankingFixture()
		display.rows["newbie"] = domain.DisplayMetadata{UserID: "newbie", Name: "Nico", Location: "Lisbon"}
		svc := NewMatchService(zap.NewNop(), repo, display, 4)

		profile, err := svc.MatchProfile(context.Background(), "viewer", "newbie")
		require.NoError(t, err)
		assert.Equal(t, NeutralCompatibilityScore, profile.CompatibilityScore)
		assert.Empty(t, profile.SharedInterests)
		assert.Nil(t, profile.VibeMatch)
		assert.Nil(t, profile.Quiz)
		assert.Equal(t, "Lisbon", profile.User.Location)
		assert.Equal(t, ReasonNoQuiz, profile.MatchReason)
	})

	t.Run("viewer without quiz", func(t *testing.T) {
		repo, display := rankingFixture()
		svc := NewMatchService(zap.NewNop(), repo, display, 4)

		profile, err := svc.MatchProfile(context.Background(), "nobody", "c2")
		require.NoError(t, err)
		assert.Equal(t, NeutralCompatibilityScore, profile.CompatibilityScore)
		require.NotNil(t, profile.Quiz)
	})

	t.Run("both quizzes", func(t *testing.T) {
		repo, display := rankingFixture()
		svc := NewMatchService(zap.NewNop(), repo, display, 4)

		profile, err := svc.MatchProfile(context.Background(), "viewer", "c2")
		require.NoError(t, err)
		assert.Equal(t, 65, profile.CompatibilityScore)
		assert.Equal(t, []string{"brunch", "hiking"}, profile.SharedInterests)
		require.NotNil(t, profile.Quiz)
		assert.Equal(t, []string{"brunch", "hiking", "travel"}, profile.Quiz.Interests)
		assert.Equal(t, domain.CommunicationSpontaneous, profile.Quiz.CommunicationStyle)
		require.NotNil(t, profile.Breakdown)
		assert.Equal(t, "Dani", profile.User.Name)
	})
}

func TestLatestQuizPerUser(t *testing.T) {
	records := []domain.QuizRecord{
		{ID: "a1", UserID: "a", CreatedAt: t0},
		{ID: "b1", UserID: "b", CreatedAt: t0},
		{ID: "a2", UserID: "a", CreatedAt: t0.Add(time.Minute)},
		{ID: "b2", UserID: "b", CreatedAt: t0},
		{ID: "a0", UserID: "a", CreatedAt: t0.Add(-time.Minute)},
	}

	out := LatestQuizPerUser(records)
	require.Len(t, out, 2)
	assert.Equal(t, "a2", out[0].ID)
	assert.Equal(t, "b1", out[1].ID, "ties keep the first record seen")
	assert.Empty(t, LatestQuizPerUser(nil))
}
