package score

import "strings"

// Record is one piece of input text with optional engagement weight.
type Record struct {
	Author     string `json:"author,omitempty"`
	Text       string `json:"text"`
	Engagement int64  `json:"engagement,omitempty"`
}

// Result is the display-only verdict. Scores never influence escrow or
// room state.
type Result struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Scorer turns records into a single labeled score.
type Scorer interface {
	Score(records []Record) Result
}

// Keyword tables for the heuristics. Matching is case-insensitive substring
// search, same as the original dashboard scorers.
var (
	bullishKeywords = []string{
		"moon", "pump", "bullish", "breakout", "ath", "accumulate",
		"long", "rally", "undervalued", "buy the dip",
	}
	bearishKeywords = []string{
		"dump", "bearish", "rug", "crash", "exit", "short",
		"overvalued", "sell", "capitulation", "dead cat",
	}
	scamKeywords = []string{
		"guaranteed", "100% win", "1000x gains", "free money", "no risk",
		"send $", "wire transfer", "risk free", "get rich quick",
		"instant wealth", "vip access", "exclusive offer",
	}
	urgencyKeywords = []string{
		"expires", "hurry", "limited time", "24 hours", "act now", "don't miss",
	}
)

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// SentimentScorer labels records bullish, bearish or neutral with a value
// in [-1, 1].
type SentimentScorer struct{}

func (SentimentScorer) Score(records []Record) Result {
	var bull, bear int
	for _, r := range records {
		text := strings.ToLower(r.Text)
		bull += countMatches(text, bullishKeywords)
		bear += countMatches(text, bearishKeywords)
	}

	total := bull + bear
	if total == 0 {
		return Result{Label: "neutral", Value: 0}
	}

	value := float64(bull-bear) / float64(total)
	switch {
	case value > 0.2:
		return Result{Label: "bullish", Value: value}
	case value < -0.2:
		return Result{Label: "bearish", Value: value}
	default:
		return Result{Label: "neutral", Value: value}
	}
}

// RiskScorer estimates scam probability in [0, 1] from scam and urgency
// language density.
type RiskScorer struct{}

func (RiskScorer) Score(records []Record) Result {
	var p float64
	for _, r := range records {
		text := strings.ToLower(r.Text)

		switch n := countMatches(text, scamKeywords); {
		case n >= 3:
			p += 0.6
		case n >= 1:
			p += 0.3
		}
		if countMatches(text, urgencyKeywords) >= 2 {
			p += 0.3
		}
		if strings.Contains(text, "send $") || strings.Contains(text, "wire ") {
			p += 0.7
		}
	}
	if p > 1 {
		p = 1
	}

	label := "low_risk"
	switch {
	case p >= 0.7:
		label = "high_risk"
	case p >= 0.35:
		label = "medium_risk"
	}
	return Result{Label: label, Value: p}
}
