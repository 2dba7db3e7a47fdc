package identifier

import "fmt"

// FormatError reports an input that violates the identifier grammar. It is
// never a lookup failure: a FormatError means the text is corrupt.
type FormatError struct {
	Input  string
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed identifier %q at offset %d: %s", e.Input, e.Offset, e.Reason)
}
