// This file extracts template expressions from workflow text and
// classifies the context references inside them.
//
// # Expression Scanning
//
// The ${{ ... }} interiors are parsed with actionlint's expression
// lexer and parser, the same grammar GitHub evaluates, so dotted access,
// index access, and function calls all classify correctly. An interior
// the parser rejects falls back to a raw substring scan: a reference we
// cannot prove is still worth reporting when it names the secrets
// context.

package workflow

import (
	"regexp"
	"strings"

	"github.com/rhysd/actionlint"
)

// expressionPattern matches a template expression, crossing line
// boundaries inside literal blocks
var expressionPattern = regexp.MustCompile(`(?s)\$\{\{(.*?)\}\}`)

// secretsContext is the expression context holding repository secrets
const secretsContext = "secrets"

// secretReference is one secrets context access found in scanned text
type secretReference struct {
	// Name is the accessed key, "" when the access is dynamic or the
	// expression did not parse
	Name string
	// Offset is the byte offset of the opening ${{ in the scanned text
	Offset int
}

// findSecretReferences returns every secrets context access in text,
// in source order.
func findSecretReferences(text string) []secretReference {
	if !strings.Contains(text, "${{") {
		return nil
	}
	var refs []secretReference
	for _, match := range expressionPattern.FindAllStringSubmatchIndex(text, -1) {
		inner := text[match[2]:match[3]]
		offset := match[0]

		names, parsed := secretNamesInExpression(inner)
		if !parsed {
			if rawMentionsSecrets(inner) {
				refs = append(refs, secretReference{Offset: offset})
			}
			continue
		}
		for _, name := range names {
			refs = append(refs, secretReference{Name: name, Offset: offset})
		}
	}
	return refs
}

// secretNamesInExpression parses one expression interior and collects
// the secrets accesses. The second result is false when the interior is
// not a valid expression.
func secretNamesInExpression(inner string) ([]string, bool) {
	trimmed := strings.TrimSpace(inner)
	if trimmed == "" {
		return nil, true
	}

	lexer := actionlint.NewExprLexer(trimmed + "}}")
	expr, perr := actionlint.NewExprParser().Parse(lexer)
	if perr != nil {
		return nil, false
	}

	var names []string
	actionlint.VisitExprNode(expr, func(node, parent actionlint.ExprNode, entering bool) {
		if !entering {
			return
		}
		switch n := node.(type) {
		case *actionlint.ObjectDerefNode:
			if receiverIsSecrets(n.Receiver) {
				names = append(names, n.Property)
			}
		case *actionlint.IndexAccessNode:
			if receiverIsSecrets(n.Operand) {
				if s, ok := n.Index.(*actionlint.StringNode); ok {
					names = append(names, s.Value)
				} else {
					names = append(names, "")
				}
			}
		}
	})
	return names, true
}

// receiverIsSecrets reports whether an expression node is the secrets
// context variable. Context names are case-insensitive.
func receiverIsSecrets(node actionlint.ExprNode) bool {
	v, ok := node.(*actionlint.VariableNode)
	return ok && strings.EqualFold(v.Name, secretsContext)
}

// rawMentionsSecrets is the fallback for unparseable interiors
func rawMentionsSecrets(inner string) bool {
	lowered := strings.ToLower(inner)
	return strings.Contains(lowered, secretsContext+".") ||
		strings.Contains(lowered, secretsContext+"[")
}

// lineOfOffset maps a byte offset inside text to a line number relative
// to the line the text starts on
func lineOfOffset(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n")
}
