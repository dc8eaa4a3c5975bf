// Package patch applies validated change operations to a document.
//
// A [Session] owns one document for its whole lifetime: it loads the
// document through its [DocumentStore], validates and orders the incoming
// operations, executes them one by one through the [Executor] state machine,
// escalates failed matches through the [RetryChain], appends audit notes,
// and persists exactly once. One operation failing never aborts the session;
// a failing final save always does.
package patch
