package ids

import "github.com/segmentio/ksuid"

// New returns a sortable unique identifier for database primary keys.
func New() string {
	return ksuid.New().String()
}
