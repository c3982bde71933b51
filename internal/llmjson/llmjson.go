package llmjson

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	jsonFence = regexp.MustCompile("(?s)```json[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")
	anyFence  = regexp.MustCompile("(?s)```[A-Za-z0-9_+-]*[ \\t]*\\r?\\n(.*?)\\r?\\n[ \\t]*```")
)

// Extract returns the JSON candidate inside text: the first fenced block
// labelled json, else the first fenced block of any kind, else the trimmed
// text itself.
func Extract(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// Schema is a compiled JSON Schema for one call site.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile compiles a JSON Schema document.
func Compile(name, doc string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("compiling %s schema: %w", name, err)
	}
	return &Schema{name: name, schema: s}, nil
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level schema variables built from embedded documents.
func MustCompile(name, doc string) *Schema {
	s, err := Compile(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema's name.
func (s *Schema) Name() string { return s.name }

// Validate checks candidate against the schema. Any failure is returned as a
// *SchemaViolation.
func (s *Schema) Validate(candidate string) error {
	if !json.Valid([]byte(candidate)) {
		return &SchemaViolation{Raw: candidate, Reason: "not valid JSON"}
	}
	result, err := s.schema.Validate(gojsonschema.NewStringLoader(candidate))
	if err != nil {
		return &SchemaViolation{Raw: candidate, Reason: "validating " + s.name, Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &SchemaViolation{
			Raw:    candidate,
			Reason: fmt.Sprintf("does not match %s schema: %s", s.name, strings.Join(msgs, "; ")),
		}
	}
	return nil
}

// Parse extracts the JSON candidate from text, validates it and decodes it
// into T. There is no partial recovery: on any failure the zero T and a
// *SchemaViolation carrying the full text are returned.
func Parse[T any](text string, schema *Schema) (T, error) {
	v, err := Decode[T](Extract(text), schema)
	if err != nil {
		if sv, ok := err.(*SchemaViolation); ok {
			sv.Raw = text
		}
		return v, err
	}
	return v, nil
}

// Decode validates a JSON document and decodes it into T without looking for
// fenced blocks.
func Decode[T any](doc string, schema *Schema) (T, error) {
	var v T
	if err := schema.Validate(doc); err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		var zero T
		return zero, &SchemaViolation{Raw: doc, Reason: "decoding " + schema.name, Cause: err}
	}
	return v, nil
}

// Accept returns a check reporting whether text would Parse into T. It lets
// layers that only see raw text, such as a response cache, tell a usable
// reply from a malformed one.
func Accept[T any](schema *Schema) func(text string) error {
	return func(text string) error {
		_, err := Parse[T](text, schema)
		return err
	}
}
