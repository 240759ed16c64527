package score

import "testing"

func TestSentimentScorer(t *testing.T) {
	cases := []struct {
		name    string
		records []Record
		label   string
	}{
		{
			"bullish",
			[]Record{
				{Text: "This coin is going to MOON, huge breakout incoming"},
				{Text: "Accumulate now, clearly undervalued"},
			},
			"bullish",
		},
		{
			"bearish",
			[]Record{
				{Text: "Total rug, devs are about to dump on everyone"},
				{Text: "Bearish divergence, expecting a crash"},
			},
			"bearish",
		},
		{
			"neutral on empty input",
			nil,
			"neutral",
		},
		{
			"neutral on mixed signals",
			[]Record{
				{Text: "could pump or dump, who knows"},
			},
			"neutral",
		},
	}

	var s SentimentScorer
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.Score(tc.records)
			if got.Label != tc.label {
				t.Fatalf("label = %s (value %.2f), want %s", got.Label, got.Value, tc.label)
			}
			if got.Value < -1 || got.Value > 1 {
				t.Fatalf("value %.2f out of [-1, 1]", got.Value)
			}
		})
	}
}

func TestRiskScorer(t *testing.T) {
	var s RiskScorer

	clean := s.Score([]Record{{Text: "weekly market recap and chart analysis"}})
	if clean.Label != "low_risk" || clean.Value != 0 {
		t.Fatalf("clean text scored %s/%.2f", clean.Label, clean.Value)
	}

	scam := s.Score([]Record{
		{Text: "GUARANTEED 1000x gains, free money, act now, limited time, expires in 24 hours! send $100"},
	})
	if scam.Label != "high_risk" {
		t.Fatalf("scam text scored %s/%.2f, want high_risk", scam.Label, scam.Value)
	}
	if scam.Value > 1 {
		t.Fatalf("value %.2f above cap", scam.Value)
	}
}
