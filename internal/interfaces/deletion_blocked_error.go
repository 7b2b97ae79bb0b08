package interfaces

import "fmt"

// DeletionBlockedError is returned when dependent rows still reference the
// resource being deleted.
type DeletionBlockedError struct {
	Resource   string
	References map[string]int64
}

func (e *DeletionBlockedError) Error() string {
	return fmt.Sprintf("%s deletion blocked by existing references", e.Resource)
}
