// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Count is a non-negative integer tool argument. Callers that serialize
// every number as a float ("3.0") are accepted; a fractional value is
// truncated toward zero.
type Count int

// UnmarshalJSON accepts any JSON number or null.
func (c *Count) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected a number, got %s", data)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("number %s out of range", data)
	}
	*c = Count(math.Trunc(f))
	return nil
}
