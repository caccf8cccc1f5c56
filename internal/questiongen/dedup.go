package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/codetrainer/internal/quiz"
)

// buildDedup lists prior questions for the prompt, keeping only the most
// recent max. Returns "None" when there are none.
func buildDedup(prior []quiz.Question, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, oneLine(q.Prompt))
		if q.CodeSnippet != "" {
			fmt.Fprintf(&b, "   code: %s\n", oneLine(q.CodeSnippet))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// sameQuestion reports whether a and b ask the same thing, ignoring
// whitespace and case.
func sameQuestion(a, b quiz.Question) bool {
	return strings.EqualFold(oneLine(a.Prompt), oneLine(b.Prompt)) &&
		strings.EqualFold(oneLine(a.CodeSnippet), oneLine(b.CodeSnippet))
}
