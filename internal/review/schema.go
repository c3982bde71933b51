package review

import (
	_ "embed"

	"github.com/dshills/prgate/internal/llmjson"
)

var (
	//go:embed schema/result.json
	resultSchemaDoc string

	//go:embed schema/fix_request.json
	fixRequestSchemaDoc string
)

// ResultSchema constrains a review pass response and a stored pass artifact.
var ResultSchema = llmjson.MustCompile("review result", resultSchemaDoc)

// FixRequestSchema constrains the persisted findings file.
var FixRequestSchema = llmjson.MustCompile("fix request", fixRequestSchemaDoc)
