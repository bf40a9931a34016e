package domain

import "time"

// SocialStyle describe en qué tamaño de grupo se siente cómodo el usuario.
type SocialStyle string

const (
	SocialStyleSolo       SocialStyle = "solo"
	SocialStyleSmallGroup SocialStyle = "small_group"
	SocialStyleBigGroup   SocialStyle = "big_group"
	SocialStyleDepends    SocialStyle = "depends"
)

// CommunicationStyle describe cómo prefiere mantener el contacto.
type CommunicationStyle string

const (
	CommunicationTexter         CommunicationStyle = "texter"
	CommunicationPlanner        CommunicationStyle = "planner"
	CommunicationSpontaneous    CommunicationStyle = "spontaneous"
	CommunicationLowMaintenance CommunicationStyle = "low_maintenance"
)

const (
	DealbreakerFlaky       = "flaky"
	DealbreakerNegative    = "negative"
	DealbreakerCompetitive = "competitive"
	DealbreakerDrama       = "drama"
	DealbreakerNone        = "none"
)

// Vocabulario aceptado en el envío del quiz. El scorer no lo consulta.
var (
	InterestTags = []string{
		"brunch", "hiking", "concerts", "gaming", "fitness", "cooking",
		"movies", "travel", "sports", "art", "nightlife", "boardgames",
	}
	SocialStyles = []SocialStyle{
		SocialStyleSolo, SocialStyleSmallGroup, SocialStyleBigGroup, SocialStyleDepends,
	}
	FriendshipValueTags = []string{
		"reliability", "humor", "depth", "adventure", "support", "shared_interests",
	}
	CommunicationStyles = []CommunicationStyle{
		CommunicationTexter, CommunicationPlanner, CommunicationSpontaneous, CommunicationLowMaintenance,
	}
	HangoutVibeTags = []string{
		"active", "chill", "explore", "creative", "nightout", "outdoors",
	}
	DealbreakerTags = []string{
		DealbreakerFlaky, DealbreakerNegative, DealbreakerCompetitive, DealbreakerDrama, DealbreakerNone,
	}
	AvailabilityPresets = []string{"weekday_evenings", "weekends", "flexible", "busy"}
	AvailabilityDays    = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	AvailabilityTimes   = []string{"Morning", "Afternoon", "Evening", "Late Night"}
)

// Availability se guarda con el quiz pero no participa del puntaje.
type Availability struct {
	Preset      string   `json:"preset"`
	CustomDays  []string `json:"custom_days"`
	CustomTimes []string `json:"custom_times"`
}

// QuizRecord es una respuesta de quiz ya enviada. Es inmutable: un nuevo envío crea otro registro
// y el más reciente por usuario es el que cuenta.
type QuizRecord struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	Interests          []string           `json:"interests"`
	SocialStyle        SocialStyle        `json:"social_style,omitempty"`
	FriendshipValues   []string           `json:"friendship_values"`
	CommunicationStyle CommunicationStyle `json:"communication_style,omitempty"`
	HangoutVibe        []string           `json:"hangout_vibe"`
	Availability       *Availability      `json:"availability,omitempty"`
	Dealbreakers       []string           `json:"dealbreakers"`
	Bio                string             `json:"bio,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// QuizAnswers es la vista de las respuestas que se muestra en el detalle de un match.
type QuizAnswers struct {
	Interests          []string           `json:"interests"`
	SocialStyle        SocialStyle        `json:"social_style,omitempty"`
	FriendshipValues   []string           `json:"friendship_values"`
	CommunicationStyle CommunicationStyle `json:"communication_style,omitempty"`
	HangoutVibe        []string           `json:"hangout_vibe"`
	Dealbreakers       []string           `json:"dealbreakers"`
}

// Answers devuelve las respuestas públicas del registro.
func (q *QuizRecord) Answers() *QuizAnswers {
	if q == nil {
		return nil
	}
	return &QuizAnswers{
		Interests:          q.Interests,
		SocialStyle:        q.SocialStyle,
		FriendshipValues:   q.FriendshipValues,
		CommunicationStyle: q.CommunicationStyle,
		HangoutVibe:        q.HangoutVibe,
		Dealbreakers:       q.Dealbreakers,
	}
}
