// Package cache keeps generative text responses on disk so that an identical
// request to the same provider and model is answered without a network call.
//
// Entries are keyed by a SHA-256 hash of provider, model, system prompt and
// prompt. Prompts are built from already-redacted diffs. Expired entries are
// skipped on read. The cache is disabled unless cache.enabled is set.
package cache
