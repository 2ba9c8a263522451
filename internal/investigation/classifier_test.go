package investigation_test

import (
	"testing"

	"github.com/myrjola/specter/internal/investigation"
	"github.com/myrjola/specter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	staticSurface = "The haunting was staged interference from faulty wiring amplified by neighborhood rumors."
	staticTrue    = "Margaret Holloway never disappeared. Her remains were sealed behind the upstairs hallway walls during the renovation."
)

func TestClassify_incorrectTheory(t *testing.T) {
	classification := investigation.Classify(
		"It was nothing, just my imagination running wild tonight",
		staticSurface, staticTrue)

	assert.Equal(t, models.TheoryResultIncorrect, classification.Result)
	assert.Zero(t, classification.SurfaceScore)
	assert.Zero(t, classification.TrueScore)
}

func TestClassify_trueSolution(t *testing.T) {
	classification := investigation.Classify(
		"Margaret Holloway never left. Her remains were sealed behind the upstairs hallway walls.",
		staticSurface, staticTrue)

	assert.Equal(t, models.TheoryResultTrue, classification.Result)
	assert.GreaterOrEqual(t, classification.TrueScore, 0.4)
}

func TestClassify_surfaceSolution(t *testing.T) {
	classification := investigation.Classify(
		"The haunting was staged by someone exploiting faulty wiring and neighborhood gossip.",
		staticSurface, staticTrue)

	assert.Equal(t, models.TheoryResultSurface, classification.Result)
	assert.GreaterOrEqual(t, classification.SurfaceScore, 0.3)
	assert.Less(t, classification.TrueScore, 0.4)
}

// A theory matching both solutions is credited with the true solution.
func TestClassify_truePriority(t *testing.T) {
	classification := investigation.Classify(
		"The haunting was staged interference, but Margaret Holloway never disappeared. "+
			"Her remains were sealed behind the upstairs hallway walls during the renovation.",
		staticSurface, staticTrue)

	require.GreaterOrEqual(t, classification.SurfaceScore, 0.3)
	require.GreaterOrEqual(t, classification.TrueScore, 0.4)
	assert.Equal(t, models.TheoryResultTrue, classification.Result)
}

func TestClassify_caseInsensitive(t *testing.T) {
	lower := investigation.Classify(
		"margaret holloway never disappeared. her remains were sealed behind the upstairs hallway walls.",
		staticSurface, staticTrue)
	upper := investigation.Classify(
		"MARGARET HOLLOWAY NEVER DISAPPEARED. HER REMAINS WERE SEALED BEHIND THE UPSTAIRS HALLWAY WALLS.",
		staticSurface, staticTrue)

	assert.Equal(t, lower, upper)
	assert.Equal(t, models.TheoryResultTrue, lower.Result)
}

// Short filler words in the solution do not count towards the score, so a
// theory made of them alone stays incorrect.
func TestClassify_shortTokensIgnored(t *testing.T) {
	classification := investigation.Classify(
		"the was her by from it and",
		staticSurface, staticTrue)

	assert.Equal(t, models.TheoryResultIncorrect, classification.Result)
}

// Key tokens match anywhere in the theory, not only at word boundaries.
func TestClassify_substringContainment(t *testing.T) {
	classification := investigation.Classify(
		"unsealed remains behind drywalls upstairs, hallway renovation by Margaret Holloway never solved",
		staticSurface, staticTrue)

	// "sealed" matches inside "unsealed" and "walls" inside "drywalls".
	assert.Equal(t, models.TheoryResultTrue, classification.Result)
}

// A case without reference solutions can never be solved.
func TestClassify_emptySolutions(t *testing.T) {
	classification := investigation.Classify(
		"Margaret Holloway never disappeared, her remains were sealed behind the walls.", "", "")

	assert.Equal(t, models.TheoryResultIncorrect, classification.Result)
	assert.Zero(t, classification.SurfaceScore)
	assert.Zero(t, classification.TrueScore)
}

func TestClassify_deterministic(t *testing.T) {
	theory := "Her remains were sealed behind the upstairs hallway walls during the renovation."
	first := investigation.Classify(theory, staticSurface, staticTrue)
	second := investigation.Classify(theory, staticSurface, staticTrue)

	assert.Equal(t, first, second)
}

func TestFeedback(t *testing.T) {
	assert.Contains(t, investigation.Feedback(models.TheoryResultTrue), "TRUE nature")
	assert.Contains(t, investigation.Feedback(models.TheoryResultSurface), "CASE CLOSED")
	assert.Contains(t, investigation.Feedback(models.TheoryResultIncorrect), "does not align")
}
