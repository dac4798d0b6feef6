package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	t.Run("Success_RendersNameAndLinks", func(t *testing.T) {
		subject, body, err := RenderWelcome(WelcomeData{
			Name:           "Ada",
			SiteBaseURL:    "https://skillboard.dev",
			UnsubscribeURL: "https://skillboard.dev/unsubscribe?token=abc&type=marketing",
		})

		require.NoError(t, err)
		assert.Equal(t, "Welcome to Skillboard", subject)
		assert.Contains(t, body, "Ada")
		assert.Contains(t, body, "https://skillboard.dev/v1/skills")
		assert.Contains(t, body, "token=abc&amp;type=marketing")
	})

	t.Run("Success_EscapesHTMLInName", func(t *testing.T) {
		_, body, err := RenderWelcome(WelcomeData{
			Name:        "<script>alert(1)</script>",
			SiteBaseURL: "https://skillboard.dev",
		})

		require.NoError(t, err)
		assert.NotContains(t, body, "<script>")
	})
}

func TestRenderDigest(t *testing.T) {
	subject, body, err := RenderDigest(DigestData{
		Name: "Ada",
		Skills: []DigestSkill{
			{Name: "API Contract Testing", Slug: "api-contract-testing", Summary: "Verify API contracts", Installs: 42},
			{Name: "Mutation Testing", Slug: "mutation-testing", Installs: 7},
		},
		SiteBaseURL:    "https://skillboard.dev",
		UnsubscribeURL: "https://skillboard.dev/unsubscribe?token=abc&type=digest",
	})

	require.NoError(t, err)
	assert.Equal(t, "Your weekly QA skills digest", subject)
	assert.Contains(t, body, "api-contract-testing")
	assert.Contains(t, body, "42 installs")
	assert.Contains(t, body, "type=digest")
}

func TestUnsubscribeURL(t *testing.T) {
	url := UnsubscribeURL("https://skillboard.dev/", "tok.sig", "digest")
	assert.Equal(t, "https://skillboard.dev/unsubscribe?token=tok.sig&type=digest", url)
}

func TestMessage_Validate(t *testing.T) {
	t.Run("Success_ValidMessage", func(t *testing.T) {
		msg := Message{To: "user@example.com", Subject: "Hello", BodyHTML: "<p>hi</p>"}
		assert.NoError(t, msg.Validate())
	})

	t.Run("Error_InvalidRecipient", func(t *testing.T) {
		msg := Message{To: "not-an-email", Subject: "Hello", BodyHTML: "<p>hi</p>"}
		assert.Error(t, msg.Validate())
	})

	t.Run("Error_MissingSubject", func(t *testing.T) {
		msg := Message{To: "user@example.com", BodyHTML: "<p>hi</p>"}
		assert.Error(t, msg.Validate())
	})
}
