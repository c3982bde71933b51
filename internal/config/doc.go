// Package config loads and merges prgate configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PRGATE_PROVIDER, PRGATE_MODEL_DEEP, PR_NUMBER,
//     GITHUB_REPOSITORY, etc.)
//  3. Config file (PRGATE_CONFIG, ./.prgate.{json,toml,yaml}, or
//     $XDG_CONFIG_HOME/prgate/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the user config
// file, and [SetField] to update a single key.
//
// MaxAutoFixIterations is carried for the workflow that re-invokes review and
// auto-fix; nothing inside prgate loops on it.
package config
