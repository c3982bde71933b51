package artifact

// MissingArtifactError reports an expected artifact that does not exist.
// Aggregation and auto-fix must see every pass's true state, so a missing
// file is never treated as an empty result.
type MissingArtifactError struct {
	Path  string
	Cause error
}

func (e *MissingArtifactError) Error() string {
	return "missing artifact: " + e.Path
}

func (e *MissingArtifactError) Unwrap() error {
	return e.Cause
}
