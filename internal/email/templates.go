package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const subjectNewLeadFmt = "New lead: %s"

type baseEmailData struct {
	Title   string
	Heading string
}

type newLeadEmailData struct {
	baseEmailData
	LeadNotice
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func renderNewLead(lead LeadNotice) (subject, body string, err error) {
	body, err = renderEmailTemplate("new_lead.html", newLeadEmailData{
		baseEmailData: baseEmailData{Title: "New lead", Heading: "New lead received"},
		LeadNotice:    lead,
	})
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf(subjectNewLeadFmt, lead.Name), body, nil
}
