package lessons

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a precise, demanding grammar coach preparing a middle-school student for a competitive high-school entrance exam. Lessons are short, exact, and exam-focused.`

func buildUserMessage(topic string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	b.WriteString(`
Instructions:
1. Explain the rules of the topic in 2-4 short paragraphs, including the advanced cases exam questions like to test.
2. Give 3-5 example sentences. Each shows one rule; mark errors only in prose, never with formatting.
3. Write one quick check question with 4 options and exactly one correct option. It should test the hardest rule from the explanation.
4. Explain in 1-2 sentences why the correct option is right.
5. Use plain text only. No Markdown, no HTML.`)
	return b.String()
}
