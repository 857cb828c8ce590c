// Package render formats API results for the terminal. Scores are always
// taken from the API response; nothing here computes them.
package render

import (
	"fmt"
	"math"
)

// Band is a qualitative bucket for a 0-100 score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// ScoreBand buckets a score: 80 and above is excellent, 60 good, 40 fair.
func ScoreBand(score float64) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandGood
	case score >= 40:
		return BandFair
	default:
		return BandPoor
	}
}

// Palette maps bands to ANSI SGR parameters.
type Palette map[Band]string

var (
	darkPalette = Palette{
		BandExcellent: "92",
		BandGood:      "96",
		BandFair:      "93",
		BandPoor:      "91",
	}
	lightPalette = Palette{
		BandExcellent: "32",
		BandGood:      "34",
		BandFair:      "33",
		BandPoor:      "31",
	}
)

// Style decides whether and how output is coloured.
type Style struct {
	Color bool
	Dark  bool
}

func (s Style) palette() Palette {
	if s.Dark {
		return darkPalette
	}
	return lightPalette
}

func (s Style) paint(band Band, text string) string {
	if !s.Color {
		return text
	}
	code, ok := s.palette()[band]
	if !ok {
		return text
	}
	return "\x1b[" + code + "m" + text + "\x1b[0m"
}

// Score formats a score as "85% excellent".
func (s Style) Score(score float64) string {
	band := ScoreBand(score)
	return s.paint(band, fmt.Sprintf("%s%% %s", formatNumber(score), band))
}

// OptionalScore renders nil as "-".
func (s Style) OptionalScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return s.Score(*score)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
