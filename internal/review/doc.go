// Package review runs the three review personas over a diff and merges their
// findings.
//
// A [Runner] executes one pass per call: it redacts the diff, builds the
// persona prompt, makes a single gateway call, parses the response against
// [ResultSchema] and hands the result to a [ResultStore] before returning.
// [Runner.RunAll] runs all passes concurrently in one process.
//
// [Aggregate] is pure. It concatenates findings in pass order (fast, deep,
// independent) and partitions them by severity. Two passes flagging the same
// line produce two entries.
package review
