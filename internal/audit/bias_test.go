package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-recruit/internal/config"
)

func newTestAuditor() *Auditor {
	return New(config.DefaultConfig().Audit)
}

func TestCheckFourFifthsRuleEmptyInput(t *testing.T) {
	a := newTestAuditor()

	report := a.CheckFourFifthsRule(nil)
	assert.True(t, report.Compliant)
	assert.Equal(t, "No data to analyze.", report.Details)
}

func TestCheckFourFifthsRuleNoSelections(t *testing.T) {
	a := newTestAuditor()

	report := a.CheckFourFifthsRule(map[string]float64{"A": 0, "B": 0})
	assert.True(t, report.Compliant)
	assert.Equal(t, "No selections made.", report.Details)
}

func TestCheckFourFifthsRuleCompliant(t *testing.T) {
	a := newTestAuditor()

	// 0.45/0.50 = 0.9, above the 0.8 floor.
	report := a.CheckFourFifthsRule(map[string]float64{"A": 0.50, "B": 0.45})

	assert.True(t, report.Compliant)
	assert.Equal(t, 0.5, report.MaxRate)
	assert.Equal(t, 0.4, report.Threshold80Pct)
	assert.Empty(t, report.Violations)
}

func TestCheckFourFifthsRuleViolation(t *testing.T) {
	a := newTestAuditor()

	// 0.30/0.50 = 0.6, below the 0.8 floor.
	report := a.CheckFourFifthsRule(map[string]float64{"A": 0.50, "B": 0.30})

	assert.False(t, report.Compliant)
	require.Contains(t, report.Violations, "B")
	violation := report.Violations["B"]
	assert.Equal(t, 0.3, violation.Rate)
	assert.Equal(t, 0.4, violation.Threshold)
	assert.Equal(t, 0.6, violation.Ratio)
	assert.Contains(t, report.Details, "B")
}

func TestAnalyzeScoreDistributionRejectsMismatchedGroups(t *testing.T) {
	a := newTestAuditor()

	_, err := a.AnalyzeScoreDistribution([]float64{1, 2, 3}, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrScoreGroupMismatch)
}

func TestAnalyzeScoreDistributionEmpty(t *testing.T) {
	a := newTestAuditor()

	report, err := a.AnalyzeScoreDistribution(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Count)
	assert.Empty(t, report.Percentiles)
}

func TestAnalyzeScoreDistribution(t *testing.T) {
	a := newTestAuditor()

	scores := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	groups := []string{"j1", "j1", "j1", "j1", "j1", "j2", "j2", "j2", "j2", "j2"}

	report, err := a.AnalyzeScoreDistribution(scores, groups)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Count)
	assert.Equal(t, 55.0, report.Mean)
	assert.InDelta(t, 30.28, report.Std, 0.01)
	assert.Equal(t, 10.0, report.Min)
	assert.Equal(t, 100.0, report.Max)

	// Index-based percentiles over the sorted scores.
	assert.Equal(t, 10.0, report.Percentiles["p10"])
	assert.Equal(t, 20.0, report.Percentiles["p25"])
	assert.Equal(t, 50.0, report.Percentiles["p50"])
	assert.Equal(t, 70.0, report.Percentiles["p75"])
	assert.Equal(t, 90.0, report.Percentiles["p90"])

	require.Len(t, report.ByGroup, 2)
	assert.Equal(t, 5, report.ByGroup["j1"].Count)
	assert.Equal(t, 30.0, report.ByGroup["j1"].Mean)
	assert.Equal(t, 5, report.ByGroup["j2"].Count)
	assert.Equal(t, 80.0, report.ByGroup["j2"].Mean)
}

func TestAuditJobRankingEmpty(t *testing.T) {
	a := newTestAuditor()

	report := a.AuditJobRanking(nil)

	assert.True(t, report.FourFifthsCompliant)
	assert.True(t, report.Compliance.Compliant)
	assert.Equal(t, 0, report.TotalCandidates)
	assert.Contains(t, report.Details, "Tidak ada data ranking")
}

func TestAuditJobRankingQuartileDisparity(t *testing.T) {
	a := newTestAuditor()

	// Bottom quartile all below the selection threshold (60), top quartile
	// all above: the quartile selection rates fail the 4/5ths screen.
	scores := []float64{30, 35, 40, 45, 65, 70, 80, 90}
	report := a.AuditJobRanking(scores)

	assert.Equal(t, 8, report.TotalCandidates)
	assert.Equal(t, 56.88, report.AverageScore)
	assert.Equal(t, 0.5, report.SelectionRate)
	assert.Equal(t, 2, report.QuartileSizes["Kuartil 1 (Bawah)"])
	assert.Equal(t, 4, report.QuartileSizes["Kuartil 2-3 (Tengah)"])
	assert.Equal(t, 2, report.QuartileSizes["Kuartil 4 (Atas)"])
	assert.Equal(t, 32.5, report.QuartileAverages["Kuartil 1 (Bawah)"])
	assert.Equal(t, 85.0, report.QuartileAverages["Kuartil 4 (Atas)"])
	assert.False(t, report.FourFifthsCompliant)
	assert.Contains(t, report.Details, "Non-compliant")
}

func TestAuditJobRankingUniformScoresCompliant(t *testing.T) {
	a := newTestAuditor()

	// Everyone clears the threshold, so both quartile rates are 1.0.
	scores := []float64{70, 75, 80, 85, 90, 95, 98, 99}
	report := a.AuditJobRanking(scores)

	assert.True(t, report.FourFifthsCompliant)
	assert.Equal(t, 1.0, report.SelectionRate)
	assert.Contains(t, report.Details, "Compliant")
}
