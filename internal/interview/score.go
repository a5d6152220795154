package interview

import (
	"strconv"
	"strings"
)

const (
	minScore      = 1.0
	maxScore      = 5.0
	fallbackScore = 3.0
)

// ParseScoreReply extracts a numeric score and feedback text from the model's
// grading reply. The expected shape is a first line of the form
// "Score: <integer 1-5>", a blank line, then "Feedback: <text>".
//
// The reply is untrusted text, so every malformation has a defined fallback
// rather than an error: score 3.0 and the entire raw reply as feedback. On
// success the score is clamped into [1,5] and the feedback is everything
// after the first line break, trimmed, with a leading "Feedback:" label
// stripped.
func ParseScoreReply(raw string) (float64, string) {
	firstLine, rest, found := strings.Cut(raw, "\n")
	if !found {
		return fallbackScore, raw
	}

	_, after, ok := strings.Cut(firstLine, "Score:")
	if !ok {
		return fallbackScore, raw
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
	if err != nil {
		return fallbackScore, raw
	}

	feedback := strings.TrimSpace(rest)
	feedback = strings.TrimSpace(strings.TrimPrefix(feedback, "Feedback:"))
	return clampScore(score), feedback
}

func clampScore(score float64) float64 {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
