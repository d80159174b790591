// This file holds the tree queries shared by more than one gate:
// trigger extraction, job and step iteration, and the untrusted head
// checkout heuristic used by both the permissions and antipattern gates.

package workflow

import (
	"strings"

	"github.com/wfgate/gh-wfgate/pkg/parser"
)

// triggerEvents returns the event names a document is triggered by, in
// source order. Handles the scalar, sequence, and mapping forms of the
// on block. Unknown names are returned as written; the syntax gate
// decides whether they are valid.
func triggerEvents(doc *Document) []string {
	on := doc.Root.Get("on")
	if on == nil {
		return nil
	}
	switch {
	case on.IsScalar():
		if on.Value == "" {
			return nil
		}
		return []string{on.Value}
	case on.IsSequence():
		events := make([]string, 0, len(on.Items))
		for _, item := range on.Items {
			if item.IsScalar() && item.Value != "" {
				events = append(events, item.Value)
			}
		}
		return events
	case on.IsMapping():
		events := make([]string, 0, len(on.Pairs))
		for _, pair := range on.Pairs {
			if pair.Key != nil && pair.Key.Value != "" {
				events = append(events, pair.Key.Value)
			}
		}
		return events
	}
	return nil
}

// hasTrigger reports whether the document is triggered by the named event
func hasTrigger(doc *Document, event string) bool {
	for _, name := range triggerEvents(doc) {
		if name == event {
			return true
		}
	}
	return false
}

// eachJob calls fn for every job entry under the jobs mapping. The key
// node carries the job id and its line; the value node may be any kind,
// callers check IsMapping themselves.
func eachJob(doc *Document, fn func(id string, key, job *parser.Node)) {
	jobs := doc.Root.Get("jobs")
	if !jobs.IsMapping() {
		return
	}
	for _, pair := range jobs.Pairs {
		if pair.Key == nil || pair.Value == nil {
			continue
		}
		fn(pair.Key.Value, pair.Key, pair.Value)
	}
}

// eachStep calls fn for every mapping entry in a job's steps sequence
func eachStep(job *parser.Node, fn func(step *parser.Node)) {
	steps := job.Get("steps")
	if !steps.IsSequence() {
		return
	}
	for _, step := range steps.Items {
		if step.IsMapping() {
			fn(step)
		}
	}
}

// untrustedHeadRef is the expression path that resolves to the head of
// the triggering pull request. Checking out that ref under an
// escalated-trust event runs attacker-controlled code.
const untrustedHeadRef = "github.event.pull_request.head."

// checkoutUsesPrefix matches the checkout action under any ref
const checkoutUsesPrefix = "actions/checkout"

// findUntrustedCheckouts returns the ref value nodes of checkout steps
// that check out the triggering pull request head.
func findUntrustedCheckouts(doc *Document) []*parser.Node {
	var refs []*parser.Node
	eachJob(doc, func(id string, key, job *parser.Node) {
		if !job.IsMapping() {
			return
		}
		eachStep(job, func(step *parser.Node) {
			uses := step.Get("uses")
			if !uses.IsScalar() || !isCheckoutAction(uses.Value) {
				return
			}
			ref := step.Get("with").Get("ref")
			if ref.IsScalar() && strings.Contains(ref.Value, untrustedHeadRef) {
				refs = append(refs, ref)
			}
		})
	})
	return refs
}

// isCheckoutAction reports whether a uses value names the checkout action
func isCheckoutAction(uses string) bool {
	return uses == checkoutUsesPrefix || strings.HasPrefix(uses, checkoutUsesPrefix+"@")
}
