package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iwvelando/savings-plan/pkg/constants"
)

var bodySizePattern = regexp.MustCompile(`^(\d+)\s*([KM]?)B?$`)

var bodySizeUnits = map[string]int64{
	"":  1,
	"K": 1024,
	"M": 1024 * 1024,
}

// ParseBodySize converts a request body limit such as "64K", "512B" or
// "1M" into bytes. An empty value selects the default. The limit must be
// positive and at most constants.MaxBodySizeBytes.
func ParseBodySize(value string) (int64, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(value))
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	match := bodySizePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return 0, fmt.Errorf("must be a size in bytes, K or M (e.g., '64K'), got %q", value)
	}

	n, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || n > constants.MaxBodySizeBytes {
		return 0, fmt.Errorf("must not exceed %d bytes, got %q", constants.MaxBodySizeBytes, value)
	}

	size := n * bodySizeUnits[match[2]]
	switch {
	case size <= 0:
		return 0, fmt.Errorf("must be greater than 0, got %q", value)
	case size > constants.MaxBodySizeBytes:
		return 0, fmt.Errorf("must not exceed %d bytes, got %q", constants.MaxBodySizeBytes, value)
	}
	return size, nil
}
