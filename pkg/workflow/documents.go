// This file loads workflow documents from disk and prepares them for
// validation.
//
// # Document Loading
//
// A Document is immutable once loaded: the raw bytes, the position-aware
// parse tree, recovered parse errors, and the suppression index are all
// captured up front so the gates can run concurrently over shared state
// without coordination.
//
// Loading never aborts the run for a single bad file. A file that cannot
// be read still yields a Document carrying its read error; the syntax
// gate turns that into an unreadable-file finding. Only a root directory
// that exists but cannot be listed is fatal.

package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/wfgate/gh-wfgate/pkg/logger"
	"github.com/wfgate/gh-wfgate/pkg/parser"
	"github.com/wfgate/gh-wfgate/pkg/stringutil"
)

var documentsLog = logger.New("workflow:documents")

// workflowGlob matches the workflow file extensions inside the root
// directory. Workflow directories are flat, so no recursive pattern.
const workflowGlob = "*.{yml,yaml}"

// Document is one workflow file prepared for validation
type Document struct {
	// Path is the file path as given by the caller, used in findings and reports
	Path string
	// Raw holds the file bytes the tree was parsed from
	Raw []byte
	// Root is the position-aware parse tree, never nil unless ReadError is set
	Root *parser.Node
	// ParseErrors holds errors recovered during parsing; the tree still
	// covers every block that parsed
	ParseErrors []parser.ParseError
	// Suppressions indexes the wfgate ignore annotations found in the file
	Suppressions *parser.SuppressionIndex
	// ReadError is set when the file could not be read; all other fields
	// except Path are zero in that case
	ReadError error
}

// NewDocument parses raw workflow content into a Document
func NewDocument(path string, raw []byte) *Document {
	root, parseErrs := parser.Parse(raw)
	return &Document{
		Path:         path,
		Raw:          raw,
		Root:         root,
		ParseErrors:  parseErrs,
		Suppressions: parser.ScanSuppressions(raw),
	}
}

// ReadDocument loads a single workflow file from disk.
// A read failure is recorded on the Document rather than returned, so a
// single unreadable file never aborts the run.
func ReadDocument(path string) *Document {
	raw, err := os.ReadFile(path)
	if err != nil {
		documentsLog.Printf("Failed to read %s: %v", path, err)
		return &Document{Path: path, ReadError: err}
	}
	return NewDocument(path, raw)
}

// LoadDocuments discovers and loads every workflow file directly under
// root, sorted by path. A missing root returns an empty slice and no
// error; the caller reports a no-documents result. A root that exists
// but cannot be listed is a fatal error.
func LoadDocuments(root string) ([]*Document, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		documentsLog.Printf("Workflow directory %s does not exist", root)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access workflow directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return []*Document{ReadDocument(root)}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), workflowGlob)
	if err != nil {
		return nil, fmt.Errorf("cannot list workflow directory %s: %w", root, err)
	}
	sort.Strings(matches)

	docs := make([]*Document, 0, len(matches))
	for _, name := range matches {
		if !stringutil.IsWorkflowFile(name) {
			continue
		}
		docs = append(docs, ReadDocument(filepath.Join(root, name)))
	}
	documentsLog.Printf("Loaded %d workflow documents from %s", len(docs), root)
	return docs, nil
}

// LoadFiles loads an explicit list of workflow files in the order given
func LoadFiles(paths []string) []*Document {
	docs := make([]*Document, 0, len(paths))
	for _, path := range paths {
		docs = append(docs, ReadDocument(path))
	}
	return docs
}
