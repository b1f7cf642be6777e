package prompt

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Exemplar is one few-shot example pair embedded in the QA prompt and
// reused by mock mode for best-effort matching.
type Exemplar struct {
	Input  string         `json:"input"`
	Output ExemplarOutput `json:"output"`
}

// ExemplarOutput accepts both a plain string and a list of lines, the
// two shapes present in few_shot_examples.json.
type ExemplarOutput []string

func (o *ExemplarOutput) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*o = ExemplarOutput{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*o = ExemplarOutput(many)
	return nil
}

// Templates are the three static resources read at construction time.
type Templates struct {
	Prefix    string
	Suffix    string
	Exemplars []Exemplar
}

// Built-in fallback used when the template files cannot be read.
const defaultPrefix = `Human:
You are a helpful and informative conversational assistant specialized in
providing information from a knowledge base. Always respond in English unless the user asks for a different language.
Use the following context to answer the user's question.
If you cannot find the answer within the provided context, politely inform
the user that you do not have the information and suggest alternative resources
if available.
When providing answers, always include the most relevant 'kb_url' and 'kb_number' metadata
references for the answers provided.
Provide concise and accurate answers. If a question is ambiguous, ask for clarification.
Respond based ONLY on the following context:
{context}

Chat History:
{chat_history}

Question: {question}

Assistant:
`

const defaultSuffix = `Assistant: (Answer strictly based on the provided context, with kb_url and kb_number.)`

// LoadTemplates reads the prompt prefix, suffix and few-shot examples
// from dir. Any failure falls back to the built-in defaults so
// construction of the prompt bundle never fails.
func LoadTemplates(dir string, logger *log.Logger) Templates {
	t := Templates{
		Prefix:    defaultPrefix,
		Suffix:    defaultSuffix,
		Exemplars: LoadExemplars(dir, logger),
	}

	prefix, err := os.ReadFile(filepath.Join(dir, "prompt_prefix.txt"))
	if err != nil {
		logger.Printf("[PROMPT] Falling back to built-in templates: %v", err)
		return t
	}
	suffix, err := os.ReadFile(filepath.Join(dir, "prompt_suffix.txt"))
	if err != nil {
		logger.Printf("[PROMPT] Falling back to built-in templates: %v", err)
		return t
	}

	t.Prefix = string(prefix)
	t.Suffix = string(suffix)
	return t
}

// LoadExemplars reads the few-shot example set. It is loaded
// independently of the prefix and suffix, so mock mode keeps its
// exemplar matches even when the QA templates fall back to the
// built-in defaults. A missing or malformed file yields an empty set,
// never an error.
func LoadExemplars(dir string, logger *log.Logger) []Exemplar {
	data, err := os.ReadFile(filepath.Join(dir, "few_shot_examples.json"))
	if err != nil {
		logger.Printf("[PROMPT] No few-shot examples available: %v", err)
		return nil
	}
	var exemplars []Exemplar
	if err := json.Unmarshal(data, &exemplars); err != nil {
		logger.Printf("[PROMPT] Ignoring malformed few-shot examples: %v", err)
		return nil
	}
	return exemplars
}
