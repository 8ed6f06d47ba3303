package extract

import (
	"fmt"
)

// DocumentFailure is the per-document failure contract: processing of
// one document failed at the named stage, and nothing about it was
// added to the batch result. Other documents are unaffected.
type DocumentFailure struct {
	Filename string
	Stage    string // "read", "identify", "classify"
	Cause    error
}

func (e *DocumentFailure) Error() string {
	return fmt.Sprintf("document %s: %s stage failed: %v", e.Filename, e.Stage, e.Cause)
}

func (e *DocumentFailure) Unwrap() error { return e.Cause }
