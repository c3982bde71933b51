// Package artifact persists the JSON files exchanged between separate prgate
// invocations: review-<pass>.json for each pass and review-findings.json for
// auto-fix.
//
// Writes go through a temp file and a rename. Reads distinguish a missing
// file (*MissingArtifactError) from one that exists but does not decode or
// validate (*llmjson.SchemaViolation).
package artifact
