package errs

import (
	"fmt"
	"strings"
)

// sanitize renders v for an error message and keeps it on a single line.
func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
