package email

import (
	"fmt"
	"html/template"
	"strings"
)

// WelcomeData feeds the welcome email template.
type WelcomeData struct {
	Name           string
	SiteBaseURL    string
	UnsubscribeURL string
}

// DigestSkill is a single leaderboard entry rendered into the digest email.
type DigestSkill struct {
	Name     string
	Slug     string
	Summary  string
	Installs int64
}

// DigestData feeds the weekly digest email template.
type DigestData struct {
	Name           string
	Skills         []DigestSkill
	SiteBaseURL    string
	UnsubscribeURL string
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<body>
  <h1>Welcome to Skillboard{{if .Name}}, {{.Name}}{{end}}!</h1>
  <p>Browse QA testing skills your coding agents can install today:</p>
  <p><a href="{{.SiteBaseURL}}/v1/skills">Explore the directory</a></p>
  <p style="font-size:12px;color:#888">
    Don't want marketing email? <a href="{{.UnsubscribeURL}}">Unsubscribe</a> with one click.
  </p>
</body>
</html>
`))

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<body>
  <h1>This week's top QA testing skills</h1>
  {{if .Name}}<p>Hi {{.Name}},</p>{{end}}
  <ol>
  {{range .Skills}}
    <li>
      <a href="{{$.SiteBaseURL}}/v1/skills/{{.Slug}}">{{.Name}}</a>
      ({{.Installs}} installs){{if .Summary}} &mdash; {{.Summary}}{{end}}
    </li>
  {{end}}
  </ol>
  <p style="font-size:12px;color:#888">
    Tired of the digest? <a href="{{.UnsubscribeURL}}">Unsubscribe</a> with one click.
  </p>
</body>
</html>
`))

// RenderWelcome renders the welcome email, returning subject and HTML body.
func RenderWelcome(data WelcomeData) (subject, bodyHTML string, err error) {
	var buf strings.Builder
	if err := welcomeTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render welcome template: %w", err)
	}
	return "Welcome to Skillboard", buf.String(), nil
}

// RenderDigest renders the weekly digest email, returning subject and HTML body.
func RenderDigest(data DigestData) (subject, bodyHTML string, err error) {
	var buf strings.Builder
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render digest template: %w", err)
	}
	return "Your weekly QA skills digest", buf.String(), nil
}

// UnsubscribeURL builds the one-click unsubscribe link embedded in emails.
// The token authorizes the preference change without a login.
func UnsubscribeURL(siteBaseURL, token, unsubscribeType string) string {
	return fmt.Sprintf("%s/unsubscribe?token=%s&type=%s",
		strings.TrimRight(siteBaseURL, "/"), token, unsubscribeType)
}
