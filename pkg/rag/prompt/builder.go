package prompt

import (
	"strings"
)

// condenseTemplate rewrites a follow-up question into a standalone one.
const condenseTemplate = `Given the following conversation and a follow up question, rephrase the follow up question
to be a standalone question, in its original language. Always respond in English unless the user explicitly asks for a different language.

Chat History:
{chat_history}

Follow Up Input: {question}
Standalone Question:`

// Bundle holds the two prompts of the RAG chain: the QA prompt with
// slots {context}/{chat_history}/{question} and the condense prompt
// with slots {chat_history}/{question}. Built once at orchestrator
// construction; immutable and safe for concurrent rendering.
type Bundle struct {
	prefix    string
	suffix    string
	exemplars []Exemplar
}

func NewBundle(t Templates) *Bundle {
	return &Bundle{
		prefix:    t.Prefix,
		suffix:    t.Suffix,
		exemplars: t.Exemplars,
	}
}

func (b *Bundle) Exemplars() []Exemplar {
	return b.exemplars
}

// RenderQA assembles the full model input: prefix, few-shot examples,
// suffix, with the slot values substituted.
func (b *Bundle) RenderQA(contextText, chatHistory, question string) string {
	var tmpl strings.Builder
	tmpl.WriteString(b.prefix)
	for _, ex := range b.exemplars {
		tmpl.WriteString("\nInput: ")
		tmpl.WriteString(ex.Input)
		tmpl.WriteString("\nOutput: ")
		tmpl.WriteString(strings.Join(ex.Output, "\n"))
		tmpl.WriteString("\n")
	}
	tmpl.WriteString(b.suffix)

	return strings.NewReplacer(
		"{context}", contextText,
		"{chat_history}", chatHistory,
		"{question}", question,
	).Replace(tmpl.String())
}

// RenderCondense builds the standalone-question prompt used for
// follow-up disambiguation.
func (b *Bundle) RenderCondense(chatHistory, question string) string {
	return strings.NewReplacer(
		"{chat_history}", chatHistory,
		"{question}", question,
	).Replace(condenseTemplate)
}
