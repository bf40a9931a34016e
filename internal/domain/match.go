package domain

// ScoreBreakdown expone el aporte de cada factor antes de normalizar.
type ScoreBreakdown struct {
	Interests     float64 `json:"interests"`
	SocialStyle   float64 `json:"social_style"`
	Values        float64 `json:"values"`
	Communication float64 `json:"communication"`
	HangoutVibe   float64 `json:"hangout_vibe"`
	Dealbreakers  float64 `json:"dealbreakers"`
	Total         float64 `json:"total"`
	MaxTotal      float64 `json:"max_total"`
}

// CompatibilityResult es el resultado de comparar dos quizzes. Nunca se persiste.
type CompatibilityResult struct {
	Score           int             `json:"score"`
	SharedInterests []string        `json:"shared_interests"`
	VibeMatch       *string         `json:"vibe_match"`
	MatchReason     string          `json:"match_reason"`
	Breakdown       *ScoreBreakdown `json:"breakdown,omitempty"`
}

// MatchUser es la información de presentación de un candidato.
type MatchUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Image     string `json:"image,omitempty"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Location  string `json:"location,omitempty"`
}

// Match es una entrada del ranking de un usuario.
type Match struct {
	ID                 string    `json:"id"`
	User               MatchUser `json:"user"`
	CompatibilityScore int       `json:"compatibility_score"`
	SharedInterests    []string  `json:"shared_interests"`
	VibeMatch          *string   `json:"vibe_match"`
	MatchReason        string    `json:"match_reason"`
}

// MatchProfile es el detalle de un candidato puntual, con sus respuestas.
type MatchProfile struct {
	User               MatchUser       `json:"user"`
	Quiz               *QuizAnswers    `json:"quiz"`
	CompatibilityScore int             `json:"compatibility_score"`
	SharedInterests    []string        `json:"shared_interests"`
	VibeMatch          *string         `json:"vibe_match"`
	MatchReason        string          `json:"match_reason"`
	Breakdown          *ScoreBreakdown `json:"breakdown,omitempty"`
}
