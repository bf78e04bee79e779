package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DefaultProjectSorting is applied to projects created without an explicit order.
const DefaultProjectSorting = 999

// Sorting is the display order key. Older clients send it as a numeric
// string, so decoding accepts both forms; encoding always emits a number.
type Sorting int

func (s *Sorting) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = 0
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*s = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("sorting: %q is not an integer", str)
		}
		*s = Sorting(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("sorting: %w", err)
	}
	*s = Sorting(n)
	return nil
}
