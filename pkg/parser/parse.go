package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	yamlparser "github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var parseLog = logger.New("parser:parse")

// ParseError is one structural failure encountered while parsing. Line and
// Column are 1-based positions in the original document; Line 0 means the
// position could not be determined.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

// Error implements the error interface.
func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Parse builds the structural tree for one document. The returned root
// always spans the whole document. When the document does not parse as a
// whole, Parse recovers block-wise: top-level blocks that parse become
// normal subtrees, failed blocks become Error nodes covering their exact
// line range, and each failure is reported as a ParseError.
func Parse(raw []byte) (*Node, []ParseError) {
	index := NewLineIndex(raw)
	lineCount := index.Count()
	if lineCount == 0 {
		lineCount = 1
	}

	file, err := yamlparser.ParseBytes(raw, 0)
	if err == nil {
		return rootFromFile(file, index, lineCount), nil
	}

	parseLog.Printf("Document parse failed, recovering block-wise: %v", err)
	return recoverBlocks(raw, index, lineCount)
}

// rootFromFile converts a parsed file into a root node stretched over the
// whole document.
func rootFromFile(file *ast.File, index *LineIndex, lineCount int) *Node {
	var bodies []*Node
	for _, doc := range file.Docs {
		if doc == nil || doc.Body == nil {
			continue
		}
		if body := convert(doc.Body, index); body != nil {
			bodies = append(bodies, body)
		}
	}

	var root *Node
	switch len(bodies) {
	case 0:
		root = &Node{Kind: KindMapping}
	case 1:
		root = bodies[0]
	default:
		// Multi-document files are rare for workflows; keep every document
		// reachable as an item of a synthetic sequence.
		root = &Node{Kind: KindSequence, Items: bodies}
	}
	root.LineStart = 1
	root.LineEnd = lineCount
	return root
}

// convert maps a goccy AST node onto the structural model. The index is
// the line index of the text the AST positions refer to.
func convert(n ast.Node, index *LineIndex) *Node {
	switch v := n.(type) {
	case nil:
		return nil
	case *ast.MappingNode:
		node := &Node{Kind: KindMapping}
		for _, mv := range v.Values {
			appendPair(node, mv, index)
		}
		setRangeFromChildren(node, n)
		return node
	case *ast.MappingValueNode:
		// A single-pair mapping surfaces without the enclosing MappingNode.
		node := &Node{Kind: KindMapping}
		appendPair(node, v, index)
		setRangeFromChildren(node, n)
		return node
	case *ast.SequenceNode:
		node := &Node{Kind: KindSequence}
		for _, item := range v.Values {
			if child := convert(item, index); child != nil {
				node.Items = append(node.Items, child)
			}
		}
		setRangeFromChildren(node, n)
		return node
	case *ast.LiteralNode:
		return literalScalar(v, index)
	case *ast.AnchorNode:
		return convert(v.Value, index)
	case *ast.TagNode:
		return convert(v.Value, index)
	case *ast.MappingKeyNode:
		return convert(v.Value, index)
	case *ast.StringNode:
		return scalarFromToken(v.GetToken(), v.Value)
	case *ast.NullNode:
		return scalarFromToken(v.GetToken(), "")
	default:
		// Integers, floats, booleans, aliases, infinities: the token text
		// is the value detectors care about.
		tok := n.GetToken()
		value := ""
		if tok != nil {
			value = tok.Value
		}
		return scalarFromToken(tok, value)
	}
}

// literalScalar builds the scalar for a block scalar (| or >). The decoded
// value of a folded block holds fewer newlines than its source region, so
// the line range and raw text come from the document text: content starts
// on the line after the header and runs while lines stay blank or at least
// as indented as the first content line.
func literalScalar(v *ast.LiteralNode, index *LineIndex) *Node {
	value := ""
	if v.Value != nil {
		value = v.Value.Value
	}
	node := &Node{Kind: KindScalar, Value: value}
	tok := v.Start
	if tok == nil || tok.Position == nil {
		return node
	}
	headerLine := tok.Position.Line
	headerIndent := indentWidth(index.Text(headerLine))

	contentIndent := -1
	end := headerLine
	for line := headerLine + 1; line <= index.Count(); line++ {
		text := index.Text(line)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			end = line
			continue
		}
		width := indentWidth(text)
		if contentIndent < 0 {
			if width <= headerIndent {
				break
			}
			contentIndent = width
		} else if width < contentIndent {
			break
		}
		end = line
	}
	// Trailing blank lines belong to the document, not the block.
	for end > headerLine+1 && strings.TrimSpace(index.Text(end)) == "" {
		end--
	}
	if contentIndent < 0 {
		node.LineStart, node.LineEnd = headerLine, headerLine
		return node
	}

	node.LineStart = headerLine + 1
	node.LineEnd = end
	lines := make([]string, 0, end-headerLine)
	for line := node.LineStart; line <= end; line++ {
		lines = append(lines, index.Text(line))
	}
	node.Raw = strings.Join(lines, "\n")
	return node
}

// scalarFromToken builds a scalar node from a token, deriving the line
// range from the token's origin text.
func scalarFromToken(tok *token.Token, value string) *Node {
	node := &Node{Kind: KindScalar, Value: value}
	if tok == nil || tok.Position == nil {
		return node
	}
	node.LineStart = tok.Position.Line
	raw := strings.Trim(tok.Origin, "\n")
	node.Raw = raw
	node.LineEnd = node.LineStart + strings.Count(raw, "\n")
	return node
}

// appendPair converts one mapping entry and appends it to parent.
func appendPair(parent *Node, mv *ast.MappingValueNode, index *LineIndex) {
	if mv == nil {
		return
	}
	key := convert(mv.Key, index)
	if key == nil {
		return
	}
	value := convert(mv.Value, index)
	if value == nil {
		value = &Node{Kind: KindScalar}
	}
	if value.LineStart == 0 {
		// Empty values (key with nothing after the colon) inherit the
		// key's position.
		value.LineStart = key.LineStart
		value.LineEnd = key.LineStart
	}
	parent.Pairs = append(parent.Pairs, Pair{Key: key, Value: value})
}

// setRangeFromChildren derives a container's line range from its children,
// falling back to the node's own token position for empty containers.
func setRangeFromChildren(node *Node, src ast.Node) {
	start, end := 0, 0
	observe := func(n *Node) {
		if n == nil || n.LineStart == 0 {
			return
		}
		if start == 0 || n.LineStart < start {
			start = n.LineStart
		}
		if n.LineEnd > end {
			end = n.LineEnd
		}
	}
	for _, p := range node.Pairs {
		observe(p.Key)
		observe(p.Value)
	}
	for _, item := range node.Items {
		observe(item)
	}
	if start == 0 {
		if tok := src.GetToken(); tok != nil && tok.Position != nil {
			start, end = tok.Position.Line, tok.Position.Line
		}
	}
	node.LineStart = start
	node.LineEnd = end
}

// block is one top-level chunk of a document that failed to parse whole.
type block struct {
	startLine int
	endLine   int
	text      string
}

// recoverBlocks splits the document at column-0 block starts and parses
// each block independently.
func recoverBlocks(raw []byte, index *LineIndex, lineCount int) (*Node, []ParseError) {
	blocks := splitTopLevelBlocks(index)
	root := &Node{Kind: KindMapping, LineStart: 1, LineEnd: lineCount}
	var errs []ParseError

	for _, b := range blocks {
		file, err := yamlparser.ParseBytes([]byte(b.text), 0)
		if err != nil {
			parseLog.Printf("Block at line %d failed to parse: %v", b.startLine, err)
			root.Items = append(root.Items, &Node{
				Kind:      KindError,
				LineStart: b.startLine,
				LineEnd:   b.endLine,
				Raw:       b.text,
			})
			errs = append(errs, toParseError(err, b.startLine-1))
			continue
		}
		blockIndex := NewLineIndex([]byte(b.text))
		for _, doc := range file.Docs {
			if doc == nil || doc.Body == nil {
				continue
			}
			body := convert(doc.Body, blockIndex)
			if body == nil {
				continue
			}
			offsetLines(body, b.startLine-1)
			if body.Kind == KindMapping {
				root.Pairs = append(root.Pairs, body.Pairs...)
				root.Items = append(root.Items, body.Items...)
			} else {
				root.Items = append(root.Items, body)
			}
		}
	}

	// Nothing salvageable: the whole document is one error node.
	if len(root.Pairs) == 0 && len(root.Items) == 1 && root.Items[0].Kind == KindError {
		errRoot := root.Items[0]
		errRoot.LineStart = 1
		errRoot.LineEnd = lineCount
		return errRoot, errs
	}

	return root, errs
}

// splitTopLevelBlocks cuts the document into chunks starting at lines whose
// first character is neither whitespace nor a comment marker. Leading
// comments and blanks form a chunk of their own, which parses to an empty
// document and is dropped.
func splitTopLevelBlocks(index *LineIndex) []block {
	count := index.Count()
	var blocks []block
	current := -1

	startsBlock := func(text string) bool {
		if text == "" {
			return false
		}
		c := text[0]
		return c != ' ' && c != '\t' && c != '#' && c != '\r'
	}

	for line := 1; line <= count; line++ {
		if startsBlock(index.Text(line)) && current >= 0 {
			blocks = append(blocks, makeBlock(index, current, line-1))
			current = line
			continue
		}
		if current < 0 {
			current = line
		}
	}
	if current >= 1 {
		blocks = append(blocks, makeBlock(index, current, count))
	}
	return blocks
}

func makeBlock(index *LineIndex, start, end int) block {
	var sb strings.Builder
	for line := start; line <= end; line++ {
		sb.WriteString(index.Text(line))
		sb.WriteByte('\n')
	}
	return block{startLine: start, endLine: end, text: sb.String()}
}

// goccy syntax errors begin with a "[line:column]" position marker.
var errPositionPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)

// toParseError extracts position and message from a parser error, shifting
// the line by lineOffset into document coordinates.
func toParseError(err error, lineOffset int) ParseError {
	first := strings.SplitN(err.Error(), "\n", 2)[0]
	if m := errPositionPattern.FindStringSubmatch(first); m != nil {
		line, _ := strconv.Atoi(m[1])
		column, _ := strconv.Atoi(m[2])
		return ParseError{Line: line + lineOffset, Column: column, Message: strings.TrimSpace(m[3])}
	}
	return ParseError{Line: lineOffset + 1, Message: strings.TrimSpace(first)}
}

// offsetLines shifts every line number in the subtree by delta.
func offsetLines(n *Node, delta int) {
	if delta == 0 {
		return
	}
	n.Walk(func(node *Node) bool {
		if node.LineStart > 0 {
			node.LineStart += delta
		}
		if node.LineEnd > 0 {
			node.LineEnd += delta
		}
		return true
	})
}
