// Package prompts builds the prompt strings sent to the completion service.
// All builders are pure string construction; nothing here touches the network.
package prompts

import (
	"fmt"
	"strings"

	"github.com/avolkov/interviewd/internal/model"
)

// System is the fixed system role used for every completion request.
const System = "You are a helpful interviewer bot."

// BuildQuestionPrompt builds the generation prompt for the next adaptive
// question. Covered topics are passed back to the model as the only
// anti-repetition signal; the generated text itself is never checked against
// previously asked questions.
func BuildQuestionPrompt(role, domain, mode string, topics []string, performanceAvg float64, difficulty model.Difficulty) string {
	covered := "none"
	if len(topics) > 0 {
		covered = strings.Join(topics, ", ")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are conducting a %s mock interview for a %s role in the %s domain.\n\n", mode, role, domain))
	sb.WriteString("Topics already covered in this interview: " + covered + "\n")
	sb.WriteString(fmt.Sprintf("Candidate performance so far: %.1f out of 5\n\n", performanceAvg))
	sb.WriteString(fmt.Sprintf("Ask ONE %s interview question on a topic not yet covered.\n\n", difficulty))
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString("- Return exactly one concise question.\n")
	sb.WriteString("- Do not add any prefix, numbering, or commentary.\n")
	sb.WriteString("- Do not repeat a topic already covered.\n")
	return sb.String()
}

// BuildEvalPrompt builds the evaluation prompt for a submitted answer. The
// mandated reply format is what ParseScoreReply expects on the way back.
func BuildEvalPrompt(role, domain, mode, question, answer string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are evaluating a candidate for a %s role in a %s interview (%s domain).\n\n", role, mode, domain))
	sb.WriteString("Question: " + question + "\n\n")
	sb.WriteString("Answer: " + answer + "\n\n")
	sb.WriteString("Evaluate the answer for correctness, depth, and clarity.\n\n")
	sb.WriteString("Respond in EXACTLY this format:\n")
	sb.WriteString("Score: <integer 1-5>\n\n")
	sb.WriteString("Feedback: <specific feedback on this answer>\n\n")
	sb.WriteString("Do not add anything before the Score line.\n")
	return sb.String()
}

// BuildSummaryPrompt builds the final evaluation prompt from the full
// transcript. The reply is returned to the client verbatim, so the formatting
// rules are spelled out here rather than enforced by parsing.
func BuildSummaryPrompt(role, domain, mode, candidateName string, transcript []model.QA, scores []float64) string {
	var qa strings.Builder
	for i, entry := range transcript {
		if i > 0 {
			qa.WriteString("\n\n")
		}
		qa.WriteString("Question: " + entry.Question + "\n")
		qa.WriteString("Answer: " + entry.Answer + "\n")
		qa.WriteString("Feedback: " + entry.Feedback)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are an expert interviewer evaluating %s for a %s role.\n", candidateName, role))
	sb.WriteString(fmt.Sprintf("The candidate just completed a %s interview focused on the %s domain.\n\n", mode, domain))
	sb.WriteString("Here are the questions, answers, and individual feedback from the interview:\n\n")
	sb.WriteString(qa.String() + "\n\n")

	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		sb.WriteString(fmt.Sprintf("Average performance score across the interview: %.1f out of 5.\n\n", sum/float64(len(scores))))
	}

	sb.WriteString(fmt.Sprintf("Please provide a comprehensive evaluation of %s's performance, structured with these exact sections:\n\n", candidateName))
	sb.WriteString("1. Overall Performance: Give a general assessment.\n\n")
	sb.WriteString("2. Strengths: Highlight 2-3 areas where the candidate performed well.\n\n")
	sb.WriteString("3. Areas for Improvement: Identify 2-3 areas where the candidate could improve.\n\n")
	sb.WriteString("4. Actionable Next Steps: Provide specific advice for improvement.\n\n")
	sb.WriteString("FORMAT REQUIREMENTS:\n")
	sb.WriteString("- Use the exact section headings above (with numbers and colons)\n")
	sb.WriteString("- Place each section heading on its own line\n")
	sb.WriteString("- Insert a blank line between sections\n")
	sb.WriteString("- Make each paragraph focused on a single aspect\n")
	sb.WriteString("- Use clear, specific examples from their answers\n")
	sb.WriteString("- End with \"Best regards,\" without adding your name or title\n")
	return sb.String()
}
