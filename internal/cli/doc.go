// Package cli wires together the Cobra command tree for the prgate binary.
//
// It defines the review, autofix, backlog, config, cache and version
// commands, loads configuration, builds the gateway and GitHub client, and
// maps failures to exit codes: 2 for usage errors, 3 for rejected
// credentials and 4 for any other fatal condition.
package cli
