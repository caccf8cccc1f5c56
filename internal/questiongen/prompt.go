package questiongen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a code quiz generator. You write programming quiz questions where students complete code snippets.

Rules:
- Each question has a clear, specific prompt asking what to fill in the blank. The prompt must not be ambiguous or vague, or give away the answer.
- The code_snippet contains exactly one "____" (4 underscores) placeholder.
- Provide one correct_answer and exactly 3 wrong_answers. Wrong answers should not be partially correct or technically accurate.
- Include a helpful explanation.
- Use realistic, practical coding scenarios.
- The code_snippet must be syntactically correct when the correct_answer fills the blank.
- There must always be a change required to the code. Do not return complete code.
- Do not repeat any question from the "already asked" list.`

const followUpSystemPrompt = `You are a code quiz generator creating follow-up quizzes. Given a previous quiz, you write new programming questions that build upon or complement the previous material without repeating the same concepts.

Rules:
- Build upon or complement the concepts from the previous quiz.
- Do not repeat the same exact scenarios or code patterns.
- Increase complexity compared to the previous quiz.
- The code_snippet contains exactly one "____" (4 underscores) placeholder.
- Provide one correct_answer and exactly 3 wrong_answers.
- Include a helpful explanation.
- Use realistic, practical coding scenarios.
- The code_snippet must be syntactically correct when the correct_answer fills the blank.
- There must always be a change required to the code. Do not return complete code.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage describes the question wanted at req.QuestionIndex.
func buildUserMessage(req Request, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Question: %d of %d\n", req.QuestionIndex+1, req.TotalQuestions)

	if p := req.PreviousQuiz; p != nil {
		fmt.Fprintf(&b, "\nPrevious quiz covered (%s level):\n", p.Difficulty)
		b.WriteString(buildDedup(p.Questions, cfg.MaxPriorQuestions))
		b.WriteString("\n")
	}

	b.WriteString("\nAlready asked in this quiz:\n")
	b.WriteString(buildDedup(req.PreviousQuestions, cfg.MaxPriorQuestions))

	fmt.Fprintf(&b, "\n\nCover a different aspect of %s than the questions above, appropriate for %s level.", req.Topic, req.Difficulty)
	return b.String()
}

func systemPromptFor(req Request) string {
	if req.FollowUp() {
		return followUpSystemPrompt
	}
	return systemPrompt
}
