package accounts

import (
	"strings"

	"github.com/andino-erp/andino-erp/internal/ledger/shared"
)

// segmentWidths defines the hierarchical code scheme: one digit for the
// class, one for the group, two for the subgroup, five for the detail
// account, e.g. 1.1.01.00001.
var segmentWidths = []int{1, 1, 2, 5}

const maxCodeDigits = 9

// FormatCode normalises raw input into the canonical dotted form. Bare
// digit strings are split greedily by segment width; dotted input keeps
// its segment count with each segment zero-padded to its width. The
// result is stable under re-formatting.
func FormatCode(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", shared.ErrInvalidCodeFormat
	}
	if strings.Contains(raw, ".") {
		return formatDotted(strings.Split(raw, "."))
	}
	if !isDigits(raw) {
		return "", shared.ErrInvalidCodeFormat
	}
	if len(raw) > maxCodeDigits {
		return "", shared.ErrCodeTooLong
	}
	segments := make([]string, 0, len(segmentWidths))
	rest := raw
	for _, width := range segmentWidths {
		if rest == "" {
			break
		}
		take := width
		if take > len(rest) {
			take = len(rest)
		}
		segments = append(segments, rest[:take])
		rest = rest[take:]
	}
	return formatDotted(segments)
}

func formatDotted(segments []string) (string, error) {
	if len(segments) > len(segmentWidths) {
		return "", shared.ErrCodeTooLong
	}
	out := make([]string, len(segments))
	for i, seg := range segments {
		if seg == "" || !isDigits(seg) {
			return "", shared.ErrInvalidCodeFormat
		}
		width := segmentWidths[i]
		if len(seg) > width {
			return "", shared.ErrCodeTooLong
		}
		out[i] = strings.Repeat("0", width-len(seg)) + seg
	}
	return strings.Join(out, "."), nil
}

// Depth returns the hierarchy level implied by the code's segment count.
func Depth(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(code, ".") + 1
}

// ParentCode returns the code prefix one level up, or "" for a root account.
func ParentCode(code string) string {
	idx := strings.LastIndex(code, ".")
	if idx < 0 {
		return ""
	}
	return code[:idx]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
