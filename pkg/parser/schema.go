package parser

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var schemaLog = logger.New("parser:schema")

//go:embed schemas/workflow_schema.json
var workflowSchemaJSON []byte

var (
	workflowSchemaOnce sync.Once
	workflowSchema     *jsonschema.Schema
	workflowSchemaErr  error
)

var violationPrinter = message.NewPrinter(language.English)

// SchemaViolation is one shape violation reported by the embedded workflow
// schema. Path addresses the offending value as instance location segments
// (e.g. ["jobs", "build", "steps"]); an empty Path means the document root.
type SchemaViolation struct {
	Path    []string
	Message string
}

// PathString renders the path as a JSON-pointer-style string for messages.
func (v SchemaViolation) PathString() string {
	if len(v.Path) == 0 {
		return "/"
	}
	return "/" + strings.Join(v.Path, "/")
}

func compiledWorkflowSchema() (*jsonschema.Schema, error) {
	workflowSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(workflowSchemaJSON))
		if err != nil {
			workflowSchemaErr = fmt.Errorf("failed to decode embedded workflow schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("workflow.schema.json", doc); err != nil {
			workflowSchemaErr = fmt.Errorf("failed to register workflow schema: %w", err)
			return
		}
		workflowSchema, workflowSchemaErr = compiler.Compile("workflow.schema.json")
	})
	return workflowSchema, workflowSchemaErr
}

// ValidateDocumentShape checks a decoded document against the embedded
// minimal workflow schema and returns the leaf violations sorted by path.
// The error return is reserved for schema compilation failures.
func ValidateDocumentShape(doc map[string]any) ([]SchemaViolation, error) {
	sch, err := compiledWorkflowSchema()
	if err != nil {
		return nil, err
	}

	err = sch.Validate(normalizeForSchema(doc))
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	var violations []SchemaViolation
	collectLeafViolations(verr, &violations)
	sort.Slice(violations, func(i, j int) bool {
		return violations[i].PathString() < violations[j].PathString()
	})
	schemaLog.Printf("Schema violations: %d", len(violations))
	return violations, nil
}

func collectLeafViolations(e *jsonschema.ValidationError, out *[]SchemaViolation) {
	if len(e.Causes) == 0 {
		*out = append(*out, SchemaViolation{
			Path:    e.InstanceLocation,
			Message: e.ErrorKind.LocalizedString(violationPrinter),
		})
		return
	}
	for _, cause := range e.Causes {
		collectLeafViolations(cause, out)
	}
}

// normalizeForSchema converts a YAML-decoded value into the JSON value
// space the schema validator expects. YAML integers arrive as Go integer
// types the validator does not recognize.
func normalizeForSchema(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeForSchema(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeForSchema(item)
		}
		return out
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case uint64:
		return float64(val)
	default:
		return v
	}
}
