package service

import (
	"fmt"
	"math"
	"strings"

	"friender-bender/internal/domain"
)

const (
	NeutralCompatibilityScore = 50
	MinCompatibilityScore     = 35
	MaxCompatibilityScore     = 98
)

// Pesos de cada factor. Suman 100.
const (
	weightInterests     = 25.0
	weightSocialStyle   = 20.0
	weightValues        = 20.0
	weightCommunication = 15.0
	weightHangoutVibe   = 15.0
	weightDealbreakers  = 5.0

	interestBonusThreshold  = 3
	interestBonusMultiplier = 1.2

	dealbreakerEasygoingBonus  = 5.0
	dealbreakerNoConflictBonus = 3.0
	dealbreakerFlakyPenalty    = -2.0
	dealbreakerPenaltyFloor    = -10.0
)

const (
	ReasonNoQuiz          = "You might vibe well together!"
	ReasonSameValues      = "You value the same things in friendship"
	ReasonSameHangouts    = "You're looking for the same kind of hangouts"
	ReasonSimilarEnergy   = "Similar social energy"
	ReasonGreatPotential  = "Great potential for a friendship!"
	reasonSharedInterests = "You share %d interests!"
)

// CompatibilityScorer calcula la afinidad de amistad entre dos quizzes.
// Es una función pura: sin estado, segura para uso concurrente.
type CompatibilityScorer struct{}

// DefaultCompatibilityScorer permite uso directo sin instanciar.
var DefaultCompatibilityScorer = CompatibilityScorer{}

// Score devuelve el porcentaje de compatibilidad en [35, 98]. Si falta alguno de los quizzes devuelve 50.
func (s CompatibilityScorer) Score(mine, theirs *domain.QuizRecord) int {
	return s.Evaluate(mine, theirs).Score
}

// Evaluate calcula el puntaje y los datos derivados (intereses compartidos, vibe, motivo).
// Los derivados se calculan desde la perspectiva de mine; el puntaje no depende del orden.
func (CompatibilityScorer) Evaluate(mine, theirs *domain.QuizRecord) domain.CompatibilityResult {
	if mine == nil || theirs == nil {
		return domain.CompatibilityResult{
			Score:           NeutralCompatibilityScore,
			SharedInterests: []string{},
			MatchReason:     ReasonNoQuiz,
		}
	}

	myInterests, theirInterests := uniqueTags(mine.Interests), uniqueTags(theirs.Interests)
	myValues, theirValues := uniqueTags(mine.FriendshipValues), uniqueTags(theirs.FriendshipValues)
	myVibes, theirVibes := uniqueTags(mine.HangoutVibe), uniqueTags(theirs.HangoutVibe)

	sharedInterests := sharedTags(myInterests, theirInterests)
	sharedValues := sharedTags(myValues, theirValues)
	sharedVibes := sharedTags(myVibes, theirVibes)

	var bd domain.ScoreBreakdown

	if total := unionSize(myInterests, theirInterests); total > 0 {
		ratio := float64(len(sharedInterests)) / float64(total)
		bonus := 1.0
		if len(sharedInterests) >= interestBonusThreshold {
			bonus = interestBonusMultiplier
		}
		bd.Interests = math.Min(ratio*bonus, 1) * weightInterests
	}
	bd.MaxTotal += weightInterests

	bd.SocialStyle = socialStyleFactor(mine.SocialStyle, theirs.SocialStyle) * weightSocialStyle
	bd.MaxTotal += weightSocialStyle

	// Sin tope: 3 valores compartidos aportan más que el peso del factor.
	if len(myValues) > 0 && len(theirValues) > 0 {
		bd.Values = float64(len(sharedValues)) / 2 * weightValues
	}
	bd.MaxTotal += weightValues

	bd.Communication = communicationFactor(mine.CommunicationStyle, theirs.CommunicationStyle) * weightCommunication
	bd.MaxTotal += weightCommunication

	if total := unionSize(myVibes, theirVibes); total > 0 {
		bd.HangoutVibe = float64(len(sharedVibes)) / float64(total) * weightHangoutVibe
	}
	bd.MaxTotal += weightHangoutVibe

	bd.Dealbreakers = dealbreakerAdjustment(mine, theirs)
	bd.MaxTotal += weightDealbreakers

	bd.Total = bd.Interests + bd.SocialStyle + bd.Values + bd.Communication + bd.HangoutVibe + bd.Dealbreakers

	var vibe *string
	if len(sharedVibes) > 0 {
		v := sharedVibes[0]
		vibe = &v
	}

	return domain.CompatibilityResult{
		Score:           clampScore(int(math.Round(bd.Total / bd.MaxTotal * 100))),
		SharedInterests: sharedInterests,
		VibeMatch:       vibe,
		MatchReason:     matchReason(mine, theirs, sharedInterests, sharedValues, sharedVibes),
		Breakdown:       &bd,
	}
}

func clampScore(score int) int {
	if score < MinCompatibilityScore {
		return MinCompatibilityScore
	}
	if score > MaxCompatibilityScore {
		return MaxCompatibilityScore
	}
	return score
}

func matchReason(mine, theirs *domain.QuizRecord, sharedInterests, sharedValues, sharedVibes []string) string {
	mySocial := normalizeEnum(string(mine.SocialStyle))
	switch {
	case len(sharedInterests) >= 3:
		return fmt.Sprintf(reasonSharedInterests, len(sharedInterests))
	case len(sharedValues) >= 2:
		return ReasonSameValues
	case len(sharedVibes) >= 2:
		return ReasonSameHangouts
	case mySocial != "" && mySocial == normalizeEnum(string(theirs.SocialStyle)):
		return ReasonSimilarEnergy
	default:
		return ReasonGreatPotential
	}
}

// socialStyleFactor es simétrica por construcción: el par se ordena antes de evaluarlo.
// Un valor desconocido nunca coincide con una fila de la tabla.
func socialStyleFactor(x, y domain.SocialStyle) float64 {
	a, b := normalizeEnum(string(x)), normalizeEnum(string(y))
	if a == "" || b == "" {
		return 0.5
	}
	if !isSocialStyle(a) || !isSocialStyle(b) {
		return 0.6
	}
	if a == b {
		return 1
	}

	solo, small, big := string(domain.SocialStyleSolo), string(domain.SocialStyleSmallGroup), string(domain.SocialStyleBigGroup)
	switch p := pairOf(a, b); {
	case a == string(domain.SocialStyleDepends) || b == string(domain.SocialStyleDepends):
		return 0.85
	case p == pairOf(solo, small):
		return 0.75
	case p == pairOf(solo, big):
		return 0.4
	default:
		return 0.6
	}
}

func communicationFactor(x, y domain.CommunicationStyle) float64 {
	a, b := normalizeEnum(string(x)), normalizeEnum(string(y))
	if a == "" || b == "" {
		return 0.5
	}
	if !isCommunicationStyle(a) || !isCommunicationStyle(b) {
		return 0.65
	}
	if a == b {
		return 1
	}

	texter, planner, spontaneous := string(domain.CommunicationTexter), string(domain.CommunicationPlanner), string(domain.CommunicationSpontaneous)
	switch p := pairOf(a, b); {
	case a == string(domain.CommunicationLowMaintenance) || b == string(domain.CommunicationLowMaintenance):
		return 0.85
	case p == pairOf(texter, spontaneous):
		return 0.8
	case p == pairOf(planner, spontaneous):
		return 0.5
	default:
		return 0.65
	}
}

// dealbreakerAdjustment solo penaliza "flaky"; el resto de los dealbreakers se aceptan pero no puntúan.
func dealbreakerAdjustment(mine, theirs *domain.QuizRecord) float64 {
	if hasTag(mine.Dealbreakers, domain.DealbreakerNone) || hasTag(theirs.Dealbreakers, domain.DealbreakerNone) {
		return dealbreakerEasygoingBonus
	}

	penalty := 0.0
	if hasTag(mine.Dealbreakers, domain.DealbreakerFlaky) && isLooseCommunicator(theirs.CommunicationStyle) {
		penalty += dealbreakerFlakyPenalty
	}
	if hasTag(theirs.Dealbreakers, domain.DealbreakerFlaky) && isLooseCommunicator(mine.CommunicationStyle) {
		penalty += dealbreakerFlakyPenalty
	}
	if penalty == 0 {
		return dealbreakerNoConflictBonus
	}
	return math.Max(dealbreakerPenaltyFloor, penalty)
}

func isLooseCommunicator(c domain.CommunicationStyle) bool {
	switch domain.CommunicationStyle(normalizeEnum(string(c))) {
	case domain.CommunicationSpontaneous, domain.CommunicationLowMaintenance:
		return true
	}
	return false
}

func isSocialStyle(s string) bool {
	for _, v := range domain.SocialStyles {
		if string(v) == s {
			return true
		}
	}
	return false
}

func isCommunicationStyle(s string) bool {
	for _, v := range domain.CommunicationStyles {
		if string(v) == s {
			return true
		}
	}
	return false
}

func normalizeEnum(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func pairOf(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// uniqueTags quita duplicados y vacíos conservando el orden de aparición.
func uniqueTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// sharedTags filtra mine por los presentes en theirs, en el orden de mine.
func sharedTags(mine, theirs []string) []string {
	set := make(map[string]struct{}, len(theirs))
	for _, t := range theirs {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(mine))
	for _, t := range mine {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

func unionSize(a, b []string) int {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	return len(set)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
