// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package translate

import (
	"bytes"
	"text/template"
	"time"
)

// systemPrompt frames the model as a literature search assistant.
const systemPrompt = "You are a medical literature search assistant. You convert natural-language requests into PubMed advanced search queries."

// queryPromptTmpl asks the model for a single PubMed query. Year is the
// current year so relative ranges such as "the last five years" resolve.
var queryPromptTmpl = template.Must(template.New("query").Parse(`Convert the following natural-language request into a PubMed advanced search query. The request may be written in English, Chinese, or any other language.

Follow these rules:
- Identify field hints such as author, title, journal, or publication type, and tag each term with the matching PubMed field, for example Smith[AU] or "Nature"[TA].
- Convert relative time expressions into an explicit inclusive year range. The current year is {{.Year}}, so "the last five years" becomes ("{{.Since}}"[PDAT]:"{{.Year}}"[PDAT]).
- Prefer MeSH terms for diseases and treatments and add the [MeSH] tag.
- Return only the query. Do not add explanations, labels, or code formatting.

Examples:
Request: find articles whose author is Smith
Query: Smith[AU]

Request: 找到近五年关于新冠肺炎和免疫治疗的文章
Query: ("COVID-19"[MeSH] OR "SARS-CoV-2"[MeSH]) AND "immunotherapy"[MeSH] AND ("{{.Since}}"[PDAT]:"{{.Year}}"[PDAT])

Request: {{.Request}}
Query:`))

type promptData struct {
	Request string
	Year    int
	Since   int
}

// Prompt renders the translation instruction for request using the current
// year. MCP hosts use it to let their own model perform the translation.
func Prompt(request string) (string, error) {
	return renderPrompt(request, time.Now())
}

func renderPrompt(request string, now time.Time) (string, error) {
	var buf bytes.Buffer
	data := promptData{Request: request, Year: now.Year(), Since: now.Year() - 5}
	if err := queryPromptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
