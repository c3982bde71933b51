// Package redact removes secrets from diffs before they are sent to a
// generative text service.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS keys, bearer tokens, database connection strings
// and provider-specific tokens (Anthropic, OpenAI, GitHub, Slack).
//
// Files whose paths match the configured globs keep their diff headers but
// have every hunk withheld. A Report tells the caller what was removed so it
// can be logged.
package redact
