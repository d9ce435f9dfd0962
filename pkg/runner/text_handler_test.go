package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
)

func TestTextHandler_Output(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader(""), outBuf)

	// Mock Renderer (optional)
	handler.Renderer = func(s string) (string, error) {
		return "Rendered: " + s, nil
	}

	reply := conversation.Reply{Presentation: &domain.Presentation{Kind: domain.KindText, Body: "Hello World"}}
	if err := handler.Output(context.Background(), reply); err != nil {
		t.Fatalf("Output failed: %v", err)
	}

	output := outBuf.String()
	expected := "Rendered: Hello World"
	if !strings.Contains(output, expected) {
		t.Errorf("Expected output to contain '%s', got '%s'", expected, output)
	}
}

func TestTextHandler_Input(t *testing.T) {
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("my user input\n"), outBuf)

	val, err := handler.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if val != "my user input" {
		t.Errorf("Expected 'my user input', got '%s'", val)
	}

	// Verify Prompt was written
	if prompt := outBuf.String(); prompt != "> " {
		t.Errorf("Expected prompt '> ', got '%s'", prompt)
	}

	if _, err := handler.Input(context.Background()); err != io.EOF {
		t.Errorf("Expected EOF after the last line, got %v", err)
	}
}

func TestTextHandler_InputResolvesNumbers(t *testing.T) {
	handler := NewTextHandler(strings.NewReader("2\n/restart\n"), io.Discard)
	_ = handler.Output(context.Background(), conversation.Reply{Presentation: &domain.Presentation{
		Kind:       domain.KindButtons,
		ButtonRows: [][]domain.Button{{{ID: "GO", Label: "Go"}, {ID: "BACK", Label: "Back"}}},
	}})

	val, err := handler.Input(context.Background())
	if err != nil || val != "BACK" {
		t.Fatalf("Expected BACK, got %q (%v)", val, err)
	}

	// Commands are passed through untouched.
	val, err = handler.Input(context.Background())
	if err != nil || val != "/restart" {
		t.Fatalf("Expected /restart, got %q (%v)", val, err)
	}
}

func TestTextHandler_InputRejectsOversized(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "5")
	outBuf := &bytes.Buffer{}
	handler := NewTextHandler(strings.NewReader("far too long\nok\n"), outBuf)

	val, err := handler.Input(context.Background())
	if err != nil {
		t.Fatalf("Input failed: %v", err)
	}
	if val != "ok" {
		t.Errorf("Expected 'ok', got %q", val)
	}
	if !strings.Contains(outBuf.String(), "Please try again") {
		t.Errorf("Expected retry prompt, got %q", outBuf.String())
	}
}

func TestTextHandler_InputCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	handler := NewTextHandler(r, io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := handler.Input(ctx); err != context.DeadlineExceeded {
		t.Errorf("Expected DeadlineExceeded, got %v", err)
	}
}
