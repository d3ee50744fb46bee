package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityIdenticalTexts(t *testing.T) {
	e := NewEngine()

	text := "Senior backend engineer building Python services with Django and PostgreSQL"
	sim := e.Similarity(text, text)

	assert.GreaterOrEqual(t, sim, 0.9, "identical documents must score near 1.0")
	assert.LessOrEqual(t, sim, 1.0)
}

func TestSimilarityEmptyInput(t *testing.T) {
	e := NewEngine()

	assert.Equal(t, 0.0, e.Similarity("", "some job description"))
	assert.Equal(t, 0.0, e.Similarity("some cv text", ""))
	assert.Equal(t, 0.0, e.Similarity("", ""))
}

func TestSimilarityStopwordOnlyInput(t *testing.T) {
	e := NewEngine()

	// Both documents reduce to zero usable terms.
	assert.Equal(t, 0.0, e.Similarity("the and was were", "has have been being"))
}

func TestSimilarityRelatedBeatsUnrelated(t *testing.T) {
	e := NewEngine()

	job := "Backend engineer with Python, Django and PostgreSQL experience"
	related := "Five years as backend engineer writing Python and Django applications on PostgreSQL"
	unrelated := "Pastry chef specializing in sourdough bread and wedding cakes"

	simRelated := e.Similarity(related, job)
	simUnrelated := e.Similarity(unrelated, job)

	assert.Greater(t, simRelated, simUnrelated)
	assert.Greater(t, simRelated, 0.1)
}

func TestSimilarityIsSymmetric(t *testing.T) {
	e := NewEngine()

	a := "data analyst with sql and tableau skills"
	b := "sql reporting and tableau dashboard development"

	assert.InDelta(t, e.Similarity(a, b), e.Similarity(b, a), 1e-12)
}

func TestNewEngineWithMaxFeatures(t *testing.T) {
	// A tiny vocabulary cap still produces a bounded score.
	e := NewEngineWithMaxFeatures(3)
	sim := e.Similarity("python java go rust scala", "python java go elixir haskell")
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)

	// Non-positive caps fall back to the default.
	fallback := NewEngineWithMaxFeatures(0)
	assert.Equal(t, defaultMaxFeatures, fallback.maxFeatures)
}
