package llmjson

// SchemaViolation reports text that did not decode into the expected shape.
// Raw holds the offending text for diagnostics.
type SchemaViolation struct {
	Raw    string
	Reason string
	Cause  error
}

func (e *SchemaViolation) Error() string {
	msg := "schema violation: " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *SchemaViolation) Unwrap() error {
	return e.Cause
}

// Snippet returns at most n bytes of Raw for logging.
func (e *SchemaViolation) Snippet(n int) string {
	if len(e.Raw) <= n {
		return e.Raw
	}
	return e.Raw[:n] + "..."
}
