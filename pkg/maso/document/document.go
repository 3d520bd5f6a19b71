package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"maso-hq/masolint/pkg/maso/ast"
)

var (
	// ErrNullDocument is returned when the top-level value is null.
	ErrNullDocument = errors.New("document is null")

	// ErrTrailingData is returned when text follows the top-level value.
	ErrTrailingData = errors.New("unexpected data after top-level value")
)

// ParseError reports that text could not be parsed as a MASO document.
type ParseError struct {
	// Offset is the byte offset at which parsing failed, when known.
	Offset int64
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Document is an immutable parsed MASO document.
type Document struct {
	Lines

	text string
	root any

	// structural node index, built on first use
	index *nodeIndex
}

// Parse decodes text into a Document. It returns a *ParseError when text is
// not a single well-formed JSON value.
func Parse(text string) (*Document, error) {
	body := strings.TrimPrefix(text, "\uFEFF")

	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, newParseError(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: ErrTrailingData}
	}
	if root == nil {
		return nil, &ParseError{Err: ErrNullDocument}
	}

	return &Document{
		Lines: SplitLines(text),
		text:  text,
		root:  root,
	}, nil
}

func newParseError(err error) *ParseError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Offset: syntaxErr.Offset, Err: err}
	}
	if errors.Is(err, io.EOF) {
		return &ParseError{Err: io.ErrUnexpectedEOF}
	}
	return &ParseError{Err: err}
}

// Text returns the original text.
func (d *Document) Text() string {
	return d.text
}

// Root returns the decoded top-level value.
func (d *Document) Root() any {
	return d.root
}

// Object returns the top-level value as an object. It returns nil when the
// document root is not an object.
func (d *Document) Object() map[string]any {
	obj, _ := ast.AsObject(d.root)
	return obj
}
