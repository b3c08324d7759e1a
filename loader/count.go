package loader

import (
	"fmt"
	"strconv"
	"strings"
)

// parseCount extracts an integer count from a single agtype result value.
// agtype scalars typically arrive as a string or byte form (e.g. "3" or
// "3::numeric"); this accepts the common shapes rather than assuming a
// registered agtype codec is present on the connection.
func parseCount(v any) (int, error) {
	switch t := v.(type) {
	case int64:
		return int(t), nil
	case int32:
		return int(t), nil
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case string:
		return parseCountString(t)
	case []byte:
		return parseCountString(string(t))
	default:
		return 0, fmt.Errorf("loader: unsupported count value type %T", v)
	}
}

func parseCountString(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "::numeric")
	s = strings.TrimSuffix(s, "::int")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("loader: cannot parse count %q: %w", s, err)
	}
	return n, nil
}
