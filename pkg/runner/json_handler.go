package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/pageflow/pkg/conversation"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each reply is written as one JSON object. Input lines may be a JSON string,
// an object with a "selection_id" field, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Output implements IOHandler.
func (h *JSONHandler) Output(ctx context.Context, reply conversation.Reply) error {
	return h.Encoder.Encode(reply)
}

// Input implements IOHandler.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := h.Reader.ReadString('\n')
		text = strings.TrimSpace(text)
		if text == "" {
			if err != nil {
				return "", err
			}
			continue
		}

		clean, serr := SanitizeInput(parseJSONInput(text))
		if serr != nil {
			if oerr := h.SystemOutput(ctx, serr.Error()); oerr != nil {
				return "", oerr
			}
			continue
		}
		return clean, nil
	}
}

func parseJSONInput(text string) string {
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return strings.TrimSpace(s)
	}
	var ev conversation.Event
	if err := json.Unmarshal([]byte(text), &ev); err == nil && ev.SelectionID != "" {
		return strings.TrimSpace(ev.SelectionID)
	}
	return text
}

// SystemOutput implements IOHandler.
func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(map[string]string{"system": msg})
}
