package errors

import (
	"strings"
	"testing"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

func TestErrorMessageIncludesPosition(t *testing.T) {
	err := New(UndefinedVariable, token.Token{
		Literal: "x",
		Pos:     token.Position{Line: 3, Column: 7},
	}, "undefined variable %q", "x")

	msg := err.Error()
	if !strings.Contains(msg, "UndefinedVariable") {
		t.Errorf("message %q missing kind", msg)
	}
	if !strings.Contains(msg, "3:7") {
		t.Errorf("message %q missing position", msg)
	}
	if err.Line() != 3 {
		t.Errorf("Line() = %d, want 3", err.Line())
	}
}

func TestFormatRendersCaret(t *testing.T) {
	source := "variable x: Number = 1;\nreturn y;"
	err := New(UndefinedVariable, token.Token{
		Literal: "y",
		Pos:     token.Position{Line: 2, Column: 8},
	}, "undefined variable %q", "y")

	out := err.Format(source)
	if !strings.Contains(out, "return y;") {
		t.Errorf("formatted output missing source line:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("formatted output missing caret:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	var sourceLine, caretLine string
	for i, line := range lines {
		if strings.Contains(line, "return y;") && i+1 < len(lines) {
			sourceLine = line
			caretLine = lines[i+1]
		}
	}
	if sourceLine == "" {
		t.Fatal("no source line rendered")
	}
	caretCol := strings.Index(caretLine, "^")
	yCol := strings.Index(sourceLine, "y;")
	if caretCol != yCol {
		t.Errorf("caret at column %d, want %d:\n%s", caretCol, yCol, out)
	}
}

func TestIsKind(t *testing.T) {
	err := New(TokenCycle, token.Token{}, "cycle")
	if !IsKind(err, TokenCycle) {
		t.Error("IsKind should match the error's kind")
	}
	if IsKind(err, LexError) {
		t.Error("IsKind should not match a different kind")
	}
}
