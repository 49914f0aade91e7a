package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRegistrationConfirmed(t *testing.T) {
	subject, text, html, err := Render("registration_confirmed", map[string]any{
		"Username":      "alice",
		"EventTitle":    "Go Meetup",
		"EventDate":     "2026-09-01",
		"EventLocation": "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "You're registered: Go Meetup", subject)
	assert.Contains(t, text, "alice")
	assert.Contains(t, html, "<b>Go Meetup</b>")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render("welcome", map[string]any{
		"Username": "<script>alert(1)</script>",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
