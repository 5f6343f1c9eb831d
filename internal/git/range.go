package git

import (
	"fmt"
	"strings"
)

// ParseRange splits "from..to" into its two revision expressions.
// An empty "to" means HEAD. Three-dot (merge-base) ranges are rejected
// because the changelog always diffs two concrete snapshots.
func ParseRange(spec string) (from, to string, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", "", fmt.Errorf("empty revision range")
	}

	if strings.Contains(spec, "...") {
		return "", "", fmt.Errorf("invalid revision range %q: three-dot ranges are not supported, use 'from..to'", spec)
	}

	idx := strings.Index(spec, "..")
	if idx == -1 {
		return "", "", fmt.Errorf("invalid revision range %q: expected 'from..to'", spec)
	}
	from = spec[:idx]
	to = spec[idx+2:]

	if from == "" {
		return "", "", fmt.Errorf("invalid revision range %q: missing start revision", spec)
	}
	if to == "" {
		to = "HEAD"
	}

	return from, to, nil
}
