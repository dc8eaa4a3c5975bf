// Package plan orders change operations so that document-wide substitutions
// cannot invalidate the anchors of still-pending local edits.
package plan

import (
	"strings"

	"github.com/docforge/redline/change"
)

// Order reorders operations into three groups, each keeping its original
// relative order: local operations that depend on a global one, independent
// local operations, then global operations.
//
// A local operation depends on a global one when its target or replacement
// text contains the global target as a substring. Running the global
// substitution first would rewrite the very text the local edit needs to
// find verbatim.
func Order(ops []change.Operation) []change.Operation {
	var dependent, independent, globals []change.Operation

	for _, op := range ops {
		if op.Scope == change.ScopeGlobal {
			globals = append(globals, op)
			continue
		}
		if dependsOnAny(op, ops) {
			dependent = append(dependent, op)
		} else {
			independent = append(independent, op)
		}
	}

	out := make([]change.Operation, 0, len(ops))
	out = append(out, dependent...)
	out = append(out, independent...)
	out = append(out, globals...)
	return out
}

// dependsOnAny reports whether the local operation's searchable text
// contains any global operation's target.
func dependsOnAny(local change.Operation, ops []change.Operation) bool {
	for _, g := range ops {
		if g.Scope != change.ScopeGlobal || g.Target == "" {
			continue
		}
		if g.ID == local.ID {
			continue
		}
		if containsTarget(local, g.Target) {
			return true
		}
	}
	return false
}

// containsTarget checks every text field a local operation matches or writes.
func containsTarget(op change.Operation, target string) bool {
	if strings.Contains(op.Target, target) || strings.Contains(op.Replacement, target) {
		return true
	}
	if strings.Contains(op.Anchor, target) || strings.Contains(op.Heading, target) {
		return true
	}
	for _, b := range op.Body {
		if strings.Contains(b, target) {
			return true
		}
	}
	for _, row := range op.TableRows {
		for _, cell := range row {
			if strings.Contains(cell, target) {
				return true
			}
		}
	}
	return strings.Contains(op.Note, target)
}
