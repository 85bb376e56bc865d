// Package errors provides the kind-tagged error type shared by the
// TokenScript runtime. Every error carries the offending token's position
// so that editors can place a marker, and can render itself with source
// context and a caret indicator.
package errors

import (
	"fmt"
	"strings"

	"github.com/tokens-studio/go-tokenscript/pkg/token"
)

// Kind tags the category of a runtime error.
type Kind string

// Error kinds surfaced by the runtime.
const (
	LexError                Kind = "LexError"
	ParseError              Kind = "ParseError"
	UndefinedReference      Kind = "UndefinedReference"
	UndefinedVariable       Kind = "UndefinedVariable"
	Redeclaration           Kind = "Redeclaration"
	TypeMismatch            Kind = "TypeMismatch"
	InvalidAttributeType    Kind = "InvalidAttributeType"
	AttributeChainTooLong   Kind = "AttributeChainTooLong"
	MissingSpec             Kind = "MissingSpec"
	MissingSchema           Kind = "MissingSchema"
	StringValueAssignment   Kind = "StringValueAssignment"
	NoConversionPath        Kind = "NoConversionPath"
	NoCommonUnit            Kind = "NoCommonUnit"
	InvalidInitializerArity Kind = "InvalidInitializerArity"
	IterationLimitExceeded  Kind = "IterationLimitExceeded"
	TokenCycle              Kind = "TokenCycle"
	MissingTokenReference   Kind = "MissingTokenReference"
)

// RuntimeError is the error type produced by the lexer, parser,
// interpreter, managers and token-set processor.
type RuntimeError struct {
	Kind    Kind
	Message string
	Token   token.Token
	// Path is set for token-set diagnostics (the dotted leaf path).
	Path string
	// Participants is set for TokenCycle errors.
	Participants []string
}

// New creates a RuntimeError of the given kind attributed to tok.
func New(kind Kind, tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Token:   tok,
	}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Token.Pos.Line > 0 {
		return fmt.Sprintf("%s: %s at %d:%d", e.Kind, e.Message, e.Token.Pos.Line, e.Token.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Line returns the 1-based source line of the error, or 0 when the error
// has no position.
func (e *RuntimeError) Line() int {
	return e.Token.Pos.Line
}

// Is allows errors.Is matching on the kind via sentinel comparison.
func (e *RuntimeError) Is(target error) bool {
	t, ok := target.(*RuntimeError)
	return ok && t.Kind == e.Kind
}

// IsKind reports whether err is a *RuntimeError of the given kind.
func IsKind(err error, kind Kind) bool {
	re, ok := err.(*RuntimeError)
	return ok && re.Kind == kind
}

// Format renders the error with the offending source line and a caret
// pointing at the error column.
func (e *RuntimeError) Format(source string) string {
	var sb strings.Builder

	pos := e.Token.Pos
	if pos.Line < 1 {
		sb.WriteString(e.Error())
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("Error at line %d:%d\n", pos.Line, pos.Column))

	sourceLine := lineAt(source, pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		caretCol := pos.Column
		if caretCol < 1 {
			caretCol = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+caretCol-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	return sb.String()
}

// lineAt extracts a specific 1-indexed line from the source code.
func lineAt(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
