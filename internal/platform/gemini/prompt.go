package gemini

import (
	"bytes"
	"fmt"
	"text/template"
)

const systemInstruction = "You translate user interface strings for a software product. " +
	"Reply with the translated string only, without quotes, notes or alternatives. " +
	"Keep placeholders such as {0}, %s and {{name}} unchanged."

var promptTemplate = template.Must(template.New("translate").Parse(
	`Translate the following text into the language identified by the code "{{.LangID}}".

Text:
{{.Text}}`))

// promptData represents the data passed to the prompt template
type promptData struct {
	Text   string
	LangID string
}

// buildPrompt renders the user prompt for one translation request.
func buildPrompt(text, langID string) (string, error) {
	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, promptData{Text: text, LangID: langID}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
