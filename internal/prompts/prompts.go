package prompts

import (
	"bytes"
	"embed"
	"strings"
	"text/template"
)

//go:embed templates/*
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.md"))

// Retailer is one allowed shop as the answer prompt lists it
type Retailer struct {
	Name string
	URL  string
	Host string
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// RenderRewrite renders the query optimizer prompts. previous holds earlier
// user questions in chronological order and may be empty.
func RenderRewrite(question string, previous []string) (systemPrompt, userPrompt string, err error) {
	systemPrompt, err = render("rewrite_system.md", nil)
	if err != nil {
		return "", "", err
	}
	data := struct {
		Question string
		Previous []string
	}{Question: question, Previous: previous}
	userPrompt, err = render("rewrite_user.md", data)
	if err != nil {
		return "", "", err
	}
	return systemPrompt, userPrompt, nil
}

// RenderAnswerSystem renders the answer system prompt for the given retailers
func RenderAnswerSystem(retailers []Retailer) (string, error) {
	urls := make([]string, 0, len(retailers))
	for _, r := range retailers {
		urls = append(urls, r.URL)
	}
	data := struct {
		AllowedDomains string
		Retailers      []Retailer
	}{AllowedDomains: strings.Join(urls, ", "), Retailers: retailers}
	return render("answer_system.md", data)
}

// RenderAnswerUser renders the final user message carrying the search context
func RenderAnswerUser(question, searchContext, retailersWithData string) (string, error) {
	data := struct {
		Question          string
		Context           string
		RetailersWithData string
	}{Question: question, Context: searchContext, RetailersWithData: retailersWithData}
	return render("answer_user.md", data)
}
