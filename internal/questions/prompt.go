package questions

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an interviewer running a mock campus placement interview for an engineering student.
Write questions as plain text, one per line, with no numbering, headings or commentary.`

const introPrompt = `Generate 5 basic introductory interview questions (one sentence each).
Keep them general (e.g., background, interests, motivation), not technical.
Avoid repetition. Separate each on a new line.`

func buildTechnicalPrompt(skills []string, branch string) string {
	skillList := "basic technical knowledge"
	if len(skills) > 0 {
		skillList = strings.Join(skills, ", ")
	}
	topics := strings.Join(CoreTopics(branch), ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "Generate 5 technical interview questions for a %s student.\n", branch)
	fmt.Fprintf(&b, "Base the questions on both resume skills (%s) and core subjects of %s (%s).\n", skillList, branch, topics)
	b.WriteString("Keep questions at basic to intermediate level. Each should be clear, simple, and one sentence long.\n")
	b.WriteString("Avoid abstract, niche, or very complex topics. Output each on a new line.")
	return b.String()
}

func buildFollowUpPrompt(responses, skills []string, branch string, asked []string, maxPrior int) string {
	var last string
	if len(responses) > 0 {
		last = responses[len(responses)-1]
	}
	skillList := "basic concepts"
	if len(skills) > 0 {
		skillList = strings.Join(skills, ", ")
	}
	topics := strings.Join(CoreTopics(branch), ", ")

	var b strings.Builder
	fmt.Fprintf(&b, "You are conducting a technical interview for a %s student.\n", branch)
	fmt.Fprintf(&b, "Based on the last response: %q, their skills: %s, and core %s topics: %s,\n", last, skillList, branch, topics)
	b.WriteString("generate one new, non-repeating follow-up question.\n")
	b.WriteString("Keep it basic to intermediate, clear, and 1 sentence. Do not repeat earlier questions or words from the response.\n")
	b.WriteString("\nAlready asked in this interview:\n")
	b.WriteString(buildDedup(asked, maxPrior))
	b.WriteString("\n\nOnly output the question text.")
	return b.String()
}
