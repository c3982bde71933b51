package autofix

import (
	_ "embed"

	"github.com/dshills/prgate/internal/llmjson"
)

// FileFix is the full replacement content for one file.
type FileFix struct {
	File    string `json:"file"`
	Content string `json:"content"`
	Changes string `json:"changes,omitempty"`
}

// SourceFile is the current state of a file referenced by an error.
type SourceFile struct {
	Path    string
	Content string
	Exists  bool
}

//go:embed schema/fixes.json
var fixesSchemaDoc string

// FixesSchema constrains the gateway response: an array of FileFix.
var FixesSchema = llmjson.MustCompile("file fixes", fixesSchemaDoc)
