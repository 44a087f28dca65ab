package archive

import "fmt"

// MissingCriterionError reports a score record without one of the five
// badman criteria.
type MissingCriterionError struct {
	Criterion string
}

func (e *MissingCriterionError) Error() string {
	return fmt.Sprintf("missing badman criterion %q", e.Criterion)
}

// DataFetchError wraps any failure to obtain a catalog from a data source:
// transport, HTTP status, decoding or validation (reported as "decode").
type DataFetchError struct {
	Source string
	Op     string // "read", "fetch" or "decode"
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error {
	return e.Err
}
