package engine

import (
	"math"

	"resumelift/internal/types"
)

// baselineWeight is the weight of each of the four criteria. When the
// keyword-alignment criterion is inapplicable (no job description) the
// remaining three weights redistribute proportionally so they still sum to
// 100.
const baselineWeight = 25.0

// Score combines the classified sections, word count, and optional alignment
// ratio into per-criterion sub-scores and a clamped aggregate. alignment is
// nil when no job description was supplied.
func Score(sections []types.SectionBlock, wordCount int, alignment *float64, t Tuning) (float64, types.ScoreBreakdown) {
	breakdown := types.ScoreBreakdown{
		Structure:      structureScore(sections),
		Quantification: quantificationScore(sections, t),
		Length:         lengthScore(wordCount, t),
	}

	weightedSum := baselineWeight * (breakdown.Structure + breakdown.Quantification + breakdown.Length)
	totalWeight := 3 * baselineWeight

	if alignment != nil {
		sub := *alignment * 100
		breakdown.KeywordAlignment = &sub
		weightedSum += baselineWeight * sub
		totalWeight += baselineWeight
	}

	aggregate := weightedSum / totalWeight
	// The weighted average cannot leave [0,100] by construction; the clamp is
	// a final safety bound, not a normal code path.
	aggregate = math.Min(100, math.Max(0, aggregate))
	return round1(aggregate), breakdown
}

// structureScore is the fraction of the four core sections present, scaled to
// 100.
func structureScore(sections []types.SectionBlock) float64 {
	present := presentKinds(sections)
	count := 0
	for _, kind := range coreSectionOrder {
		if present[kind] {
			count++
		}
	}
	return round1(float64(count) / float64(len(coreSectionOrder)) * 100)
}

// quantificationScore scores the density of quantified achievements in
// Experience bullets, saturating so numeric stuffing past the cap earns
// nothing extra.
func quantificationScore(sections []types.SectionBlock, t Tuning) float64 {
	hits := countQuantifiedBullets(sections)
	if hits > t.QuantSaturation {
		hits = t.QuantSaturation
	}
	return round1(float64(hits) / float64(t.QuantSaturation) * 100)
}

// countQuantifiedBullets counts Experience bullet items containing at least
// one quantified token.
func countQuantifiedBullets(sections []types.SectionBlock) int {
	count := 0
	for _, s := range sections {
		if s.Kind != types.SectionExperience {
			continue
		}
		for _, b := range s.Bullets {
			if quantPattern.MatchString(b) {
				count++
			}
		}
	}
	return count
}

// lengthScore is a piecewise function of total word count: full credit inside
// the target band, graded penalties outside it, with over-length punished
// more mildly than near-emptiness.
func lengthScore(words int, t Tuning) float64 {
	switch {
	case words >= t.TargetMinWords && words <= t.TargetMaxWords:
		return 100
	case words > t.TargetMaxWords && words <= 1000:
		return 85
	case words >= 200 && words < t.TargetMinWords:
		return 70
	case words > 1000 && words <= 1500:
		return 60
	case words >= t.ShortWordLimit && words < 200:
		return 45
	case words > 1500:
		return 40
	case words >= 50:
		return 30
	default:
		return 10
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
