// Package llmjson turns untrusted generative text into typed values.
//
// Every call site owns a JSON Schema. [Parse] pulls a JSON candidate out of
// the text (a ```json fence, then any fence, then the raw text), validates it
// against that schema with gojsonschema and decodes it. A failure at any step
// is a *SchemaViolation; a zero or partially filled value is never returned
// as success.
package llmjson
