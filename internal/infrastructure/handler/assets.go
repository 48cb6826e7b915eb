package handler

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// LoadBackground reads an image from disk and returns a CSS declaration that
// embeds it as a base64 data URL
func LoadBackground(path string) (template.CSS, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read background image: %w", err)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("background %s is %s, not an image", path, mime.String())
	}

	// Drop parameters such as "; charset=utf-8" that would break the data URL
	mediaType, _, _ := strings.Cut(mime.String(), ";")

	encoded := base64.StdEncoding.EncodeToString(data)
	return template.CSS(fmt.Sprintf(`background-image: url("data:%s;base64,%s");`, mediaType, encoded)), nil
}
