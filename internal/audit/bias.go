// Package audit implements the post-hoc fairness checks over completed
// rankings: the four-fifths adverse-impact rule, score distribution
// statistics and the job-level quartile audit. The audit works on score
// quartiles as a proxy for demographic groups; it is a compliance screen,
// not a demographic bias detector.
package audit

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"smart-recruit/internal/config"
	"smart-recruit/internal/types"
)

// ErrScoreGroupMismatch is returned when the groups slice does not line up
// with the scores slice. Mismatched inputs are a caller bug and are rejected
// rather than silently truncated.
var ErrScoreGroupMismatch = errors.New("audit: scores and groups must have the same length")

// Quartile labels used in the job-level report.
const (
	labelQuartile1   = "Kuartil 1 (Bawah)"
	labelQuartileMid = "Kuartil 2-3 (Tengah)"
	labelQuartile4   = "Kuartil 4 (Atas)"
)

// Auditor runs fairness checks with configured thresholds.
type Auditor struct {
	cfg config.AuditConfig
}

// New builds an Auditor from the audit configuration.
func New(cfg config.AuditConfig) *Auditor {
	return &Auditor{cfg: cfg}
}

// CheckFourFifthsRule verifies that no group's selection rate falls below the
// configured fraction (classically 80%) of the highest group's rate. An
// empty input and an all-zero input are both vacuously compliant.
func (a *Auditor) CheckFourFifthsRule(groupRates map[string]float64) types.ComplianceReport {
	if len(groupRates) == 0 {
		return types.ComplianceReport{
			Compliant: true,
			Details:   "No data to analyze.",
		}
	}

	maxRate := 0.0
	for _, rate := range groupRates {
		if rate > maxRate {
			maxRate = rate
		}
	}
	if maxRate == 0 {
		return types.ComplianceReport{
			Compliant: true,
			Details:   "No selections made.",
		}
	}

	threshold := maxRate * a.cfg.FourFifthsRatio
	violations := make(map[string]types.RateViolation)
	for group, rate := range groupRates {
		if rate < threshold {
			violations[group] = types.RateViolation{
				Rate:      round4(rate),
				Threshold: round4(threshold),
				Ratio:     round4(rate / maxRate),
			}
		}
	}

	report := types.ComplianceReport{
		Compliant:      len(violations) == 0,
		MaxRate:        round4(maxRate),
		Threshold80Pct: round4(threshold),
	}
	if report.Compliant {
		report.Details = "All groups comply with the 4/5ths rule."
	} else {
		report.Violations = violations
		names := make([]string, 0, len(violations))
		for group := range violations {
			names = append(names, group)
		}
		sort.Strings(names)
		report.Details = fmt.Sprintf("%d group(s) below the 80%% threshold: %s.",
			len(violations), strings.Join(names, ", "))
	}
	return report
}

// AnalyzeScoreDistribution summarizes a score list: count, mean, sample
// standard deviation, min/max and index-based percentile markers. When
// groups is non-nil it must be parallel to scores and per-group statistics
// are included; a length mismatch is a contract violation and returns
// ErrScoreGroupMismatch.
func (a *Auditor) AnalyzeScoreDistribution(scores []float64, groups []string) (types.DistributionReport, error) {
	if groups != nil && len(groups) != len(scores) {
		return types.DistributionReport{}, ErrScoreGroupMismatch
	}
	if len(scores) == 0 {
		return types.DistributionReport{Percentiles: map[string]float64{}}, nil
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	n := len(sorted)

	report := types.DistributionReport{
		Count: n,
		Mean:  round2(mean(scores)),
		Std:   round2(sampleStdev(scores)),
		Min:   round2(sorted[0]),
		Max:   round2(sorted[n-1]),
		Percentiles: map[string]float64{
			"p10": sorted[percentileIndex(n, 1, 10)],
			"p25": sorted[percentileIndex(n, 1, 4)],
			"p50": sorted[percentileIndex(n, 1, 2)],
			"p75": sorted[percentileIndex(n, 3, 4)],
			"p90": sorted[percentileIndex(n, 9, 10)],
		},
	}

	if groups != nil {
		grouped := make(map[string][]float64)
		for i, score := range scores {
			grouped[groups[i]] = append(grouped[groups[i]], score)
		}
		report.ByGroup = make(map[string]types.GroupStats, len(grouped))
		for group, groupScores := range grouped {
			report.ByGroup[group] = types.GroupStats{
				Mean:  round2(mean(groupScores)),
				Count: len(groupScores),
				Std:   round2(sampleStdev(groupScores)),
			}
		}
	}
	return report, nil
}

// AuditJobRanking runs the quartile-proxy fairness audit over one completed
// ranking's overall scores: the bottom and top score quartiles are treated
// as groups, each quartile's selection rate is the fraction at or above the
// selection threshold, and the four-fifths rule is applied to the pair.
func (a *Auditor) AuditJobRanking(scores []float64) types.JobAuditReport {
	if len(scores) == 0 {
		return types.JobAuditReport{
			FourFifthsCompliant: true,
			QuartileSizes:       map[string]int{},
			QuartileAverages:    map[string]float64{},
			Compliance: types.ComplianceReport{
				Compliant: true,
				Details:   "No data to analyze.",
			},
			Details: "Tidak ada data ranking untuk lowongan ini.",
		}
	}

	total := len(scores)
	sorted := make([]float64, total)
	copy(sorted, scores)
	sort.Float64s(sorted)

	avg := mean(scores)
	selected := countAtLeast(scores, a.cfg.SelectionThreshold)
	selectionRate := float64(selected) / float64(total)

	q1 := sorted[:total/4]
	q4 := sorted[3*total/4:]
	q1Rate := selectionRateOf(q1, a.cfg.SelectionThreshold)
	q4Rate := selectionRateOf(q4, a.cfg.SelectionThreshold)

	compliance := a.CheckFourFifthsRule(map[string]float64{
		labelQuartile1: q1Rate,
		labelQuartile4: q4Rate,
	})

	verdict := "Compliant"
	if !compliance.Compliant {
		verdict = "Non-compliant"
	}

	return types.JobAuditReport{
		TotalCandidates: total,
		AverageScore:    round2(avg),
		SelectionRate:   round4(selectionRate),
		QuartileSizes: map[string]int{
			labelQuartile1:   len(q1),
			labelQuartileMid: total - len(q1) - len(q4),
			labelQuartile4:   len(q4),
		},
		QuartileAverages: map[string]float64{
			labelQuartile1: round2(mean(q1)),
			labelQuartile4: round2(mean(q4)),
		},
		FourFifthsCompliant: compliance.Compliant,
		Compliance:          compliance,
		Details: fmt.Sprintf(
			"Analisis %d kandidat. Rata-rata skor: %.1f. Selection rate (skor >= %.0f): %.1f%%. %s dengan aturan 4/5ths.",
			total, avg, a.cfg.SelectionThreshold, selectionRate*100, verdict),
	}
}

// percentileIndex maps the fraction num/den of n sorted values to an index,
// clamped to 0 so tiny inputs never underflow.
func percentileIndex(n, num, den int) int {
	idx := n*num/den - 1
	if idx < 0 {
		return 0
	}
	return idx
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdev is the sample standard deviation, 0 for fewer than two values.
func sampleStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func countAtLeast(values []float64, threshold float64) int {
	count := 0
	for _, v := range values {
		if v >= threshold {
			count++
		}
	}
	return count
}

func selectionRateOf(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return float64(countAtLeast(values, threshold)) / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
