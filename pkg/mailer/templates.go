package mailer

import (
	"bytes"
	"fmt"
	htmltpl "html/template"
	texttpl "text/template"
)

type emailTemplate struct {
	subject string
	text    string
	html    string
}

// Data keys: Username, EventTitle, EventDate, EventLocation.
var emailTemplates = map[string]emailTemplate{
	"welcome": {
		subject: "Welcome to Gatherly",
		text:    "Hi {{.Username}},\n\nYour account is ready. Log in to browse and create events.\n",
		html:    "<p>Hi {{.Username}},</p><p>Your account is ready. Log in to browse and create events.</p>",
	},
	"registration_confirmed": {
		subject: "You're registered: {{.EventTitle}}",
		text:    "Hi {{.Username}},\n\nYour spot for {{.EventTitle}} on {{.EventDate}} at {{.EventLocation}} is confirmed.\n",
		html:    "<p>Hi {{.Username}},</p><p>Your spot for <b>{{.EventTitle}}</b> on {{.EventDate}} at {{.EventLocation}} is confirmed.</p>",
	},
	"registration_cancelled": {
		subject: "Registration cancelled: {{.EventTitle}}",
		text:    "Hi {{.Username}},\n\nYour registration for {{.EventTitle}} on {{.EventDate}} has been cancelled.\n",
		html:    "<p>Hi {{.Username}},</p><p>Your registration for <b>{{.EventTitle}}</b> on {{.EventDate}} has been cancelled.</p>",
	},
}

// Render fills the named template with data and returns subject, text and
// HTML bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	tpl, ok := emailTemplates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	subject, err = renderText(tpl.subject, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderText(tpl.text, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderHTML(tpl.html, data)
	if err != nil {
		return "", "", "", err
	}
	return subject, text, html, nil
}

func renderText(src string, data map[string]any) (string, error) {
	t, err := texttpl.New("t").Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(src string, data map[string]any) (string, error) {
	t, err := htmltpl.New("t").Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
