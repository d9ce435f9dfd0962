package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	reply := conversation.Reply{
		SessionID:    "s1",
		Page:         "main_menu",
		Presentation: &domain.Presentation{Kind: domain.KindText, Page: "main_menu", Body: "Hello"},
	}
	require.NoError(t, handler.Output(context.Background(), reply))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var decoded conversation.Reply
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	assert.Equal(t, reply, decoded)
}

func TestJSONHandler_Input(t *testing.T) {
	in := strings.Join([]string{
		`"GO"`,
		`{"selection_id": "BACK"}`,
		``,
		`just plain text`,
	}, "\n")
	handler := NewJSONHandler(strings.NewReader(in), io.Discard)
	ctx := context.Background()

	for _, want := range []string{"GO", "BACK", "just plain text"} {
		got, err := handler.Input(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := handler.Input(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestJSONHandler_SystemOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(nil, buf)
	require.NoError(t, handler.SystemOutput(context.Background(), "handing off"))
	assert.JSONEq(t, `{"system":"handing off"}`, buf.String())
}
