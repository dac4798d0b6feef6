package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// devSender writes emails to disk instead of sending them. Used in local
// development and CI where no provider credentials exist.
type devSender struct {
	dir string
}

// NewDevSender creates a development sender that saves each email as an HTML
// file plus a JSON metadata file in dir. The directory is created on first send.
func NewDevSender(dir string) Sender {
	return &devSender{dir: dir}
}

// devMetadata is the JSON sidecar written next to each HTML body.
type devMetadata struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

// Send writes the message to the configured directory.
func (d *devSender) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSend, err)
	}

	identifier := msg.Tag
	if identifier == "" {
		identifier = msg.Subject
	}

	base := fmt.Sprintf("%s_%s",
		time.Now().Format("2006_01_02_150405"),
		sanitizeFilename(identifier),
	)

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(msg.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: failed to write html: %v", ErrFailedToSend, err)
	}

	meta := devMetadata{
		Timestamp: time.Now().Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSend, err)
	}

	metaPath := filepath.Join(d.dir, base+".json")
	if err := os.WriteFile(metaPath, metaBytes, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write metadata: %v", ErrFailedToSend, err)
	}

	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// sanitizeFilename converts an arbitrary identifier into a filesystem-safe name.
func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
