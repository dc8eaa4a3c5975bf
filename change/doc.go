// Package change defines the typed change operation and the validator that
// turns loosely-typed producer output into it.
//
// Upstream instruction parsers emit operations as JSON objects with free-form
// target and payload sections. [Validate] is the single point where that
// output becomes a well-formed [Operation]: it fills derivable defaults
// (operation ids, scope), repairs a few known producer mistakes (a bare item
// number sent as a text-replacement target), and rejects everything it cannot
// repair.
package change
