package analyze

import (
	"strings"

	"silvercare-assistant/internal/gemini"
)

const (
	defaultImageMimeType = "image/jpeg"
	documentMimeType     = "application/pdf"
)

type Image struct {
	MimeType string
	Data     string // base64
}

type Document struct {
	Data string // base64
}

type ChatMessage struct {
	Role string
	Text string
}

// BuildContentParts assembles the model input for an analysis call. Part order
// is load-bearing: images first, then the document, then the instruction text
// last. Reordering changes model behavior.
func BuildContentParts(images []Image, document *Document, instruction string) []gemini.Part {
	parts := make([]gemini.Part, 0, len(images)+2)

	for _, img := range images {
		mimeType := strings.TrimSpace(img.MimeType)
		if mimeType == "" {
			mimeType = defaultImageMimeType
		}
		parts = append(parts, gemini.Part{
			InlineData: &gemini.Blob{MimeType: mimeType, Data: img.Data},
		})
	}

	if document != nil {
		parts = append(parts, gemini.Part{
			InlineData: &gemini.Blob{MimeType: documentMimeType, Data: document.Data},
		})
	}

	return append(parts, gemini.Part{Text: instruction})
}

// BuildChatContents converts caller-supplied history (oldest first) plus the
// current message into the contents sequence for a chat call. Any role other
// than "user" is mapped to "model"; the current message goes last as "user".
func BuildChatContents(history []ChatMessage, message string) []gemini.Content {
	contents := make([]gemini.Content, 0, len(history)+1)

	for _, msg := range history {
		role := "model"
		if msg.Role == "user" {
			role = "user"
		}
		contents = append(contents, gemini.Content{
			Role:  role,
			Parts: []gemini.Part{{Text: msg.Text}},
		})
	}

	return append(contents, gemini.Content{
		Role:  "user",
		Parts: []gemini.Part{{Text: message}},
	})
}
