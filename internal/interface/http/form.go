package handlers

import (
	"sort"
	"strings"

	"github.com/gatherly/gatherly/pkg/validation"
)

// bindMessage flattens binding errors into one flash-ready line,
// "field: problem" pairs in stable order.
func bindMessage(err error) string {
	details := validation.ToDetails(err)
	if len(details) == 0 {
		return "invalid form submission"
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+details[k])
	}
	return strings.Join(parts, "; ")
}
