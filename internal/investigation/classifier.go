package investigation

import (
	"strings"

	"github.com/myrjola/specter/internal/models"
)

// Classification thresholds. The true solution is checked first so that a
// theory satisfying both thresholds is credited with the deeper solution.
const (
	trueScoreThreshold    = 0.4
	surfaceScoreThreshold = 0.3
	// keyTokenMinLength filters short common words out of the reference
	// solution before scoring.
	keyTokenMinLength = 5
)

// Classification is the outcome of scoring a theory against the two
// reference solutions of a case.
type Classification struct {
	Result       models.TheoryResult
	SurfaceScore float64
	TrueScore    float64
}

// similarity scores how much of the solution's key vocabulary appears in the
// theory. The solution is tokenized by whitespace, tokens longer than four
// characters count as key tokens, and each key token that occurs anywhere in
// the theory as a case-insensitive substring counts as a match. Duplicate
// tokens count every time. A solution without key tokens scores zero.
func similarity(theory, solution string) float64 {
	loweredTheory := strings.ToLower(theory)
	keyTokens := 0
	matched := 0
	for _, token := range strings.Fields(strings.ToLower(solution)) {
		if len(token) < keyTokenMinLength {
			continue
		}
		keyTokens++
		if strings.Contains(loweredTheory, token) {
			matched++
		}
	}
	return float64(matched) / float64(max(keyTokens, 1))
}

// Classify scores the theory against both solutions and picks the result.
// It is a pure function: same inputs always give the same classification.
func Classify(theory, surfaceSolution, trueSolution string) Classification {
	classification := Classification{
		SurfaceScore: similarity(theory, surfaceSolution),
		TrueScore:    similarity(theory, trueSolution),
	}

	switch {
	case classification.TrueScore >= trueScoreThreshold:
		classification.Result = models.TheoryResultTrue
	case classification.SurfaceScore >= surfaceScoreThreshold:
		classification.Result = models.TheoryResultSurface
	default:
		classification.Result = models.TheoryResultIncorrect
	}
	return classification
}

// Feedback returns the fixed response template for a classification result.
func Feedback(result models.TheoryResult) string {
	switch result {
	case models.TheoryResultTrue:
		return "EXCEPTIONAL WORK, INVESTIGATOR. You have uncovered the TRUE nature of this case. " +
			"Your clearance level has been noted."
	case models.TheoryResultSurface:
		return "CASE CLOSED - Surface level explanation accepted. However, our analysts believe " +
			"there may be more to this case. Consider reviewing the evidence again."
	default:
		return "Your theory does not align with the evidence. Review the case files and try again."
	}
}
