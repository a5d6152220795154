package interview

import "testing"

func TestParseScoreReply(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantScore    float64
		wantFeedback string
	}{
		{
			"well formed",
			"Score: 4\n\nFeedback: Good answer with concrete examples.",
			4.0,
			"Good answer with concrete examples.",
		},
		{
			"clamped high",
			"Score: 7\n\nFeedback: Too generous.",
			5.0,
			"Too generous.",
		},
		{
			"clamped low",
			"Score: 0\n\nFeedback: Harsh.",
			1.0,
			"Harsh.",
		},
		{
			"decimal score",
			"Score: 4.5\n\nFeedback: Almost perfect.",
			4.5,
			"Almost perfect.",
		},
		{
			"feedback without label",
			"Score: 2\n\nNeeds more depth.",
			2.0,
			"Needs more depth.",
		},
		{
			"multiline feedback",
			"Score: 5\n\nFeedback: Strong answer.\nCovered edge cases too.",
			5.0,
			"Strong answer.\nCovered edge cases too.",
		},
		{
			"missing score prefix",
			"4\n\nGreat answer.",
			3.0,
			"4\n\nGreat answer.",
		},
		{
			"non-numeric score",
			"Score: four\n\nFeedback: spelled out",
			3.0,
			"Score: four\n\nFeedback: spelled out",
		},
		{
			"no line break",
			"Score: 4",
			3.0,
			"Score: 4",
		},
		{
			"free-form reply",
			"The candidate did reasonably well overall.",
			3.0,
			"The candidate did reasonably well overall.",
		},
		{
			"empty reply",
			"",
			3.0,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, feedback := ParseScoreReply(tt.raw)
			if score != tt.wantScore {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
			if feedback != tt.wantFeedback {
				t.Errorf("feedback = %q, want %q", feedback, tt.wantFeedback)
			}
		})
	}
}
