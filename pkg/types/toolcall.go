// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"time"
)

// ToolCall is one recorded tool invocation: the arguments the model sent
// and the serialized result it received.
type ToolCall struct {
	ID        string          `json:"id" yaml:"id"`
	Tool      string          `json:"tool" yaml:"tool"`
	Arguments json.RawMessage `json:"arguments" yaml:"-"`
	Result    json.RawMessage `json:"result" yaml:"-"`
	Status    string          `json:"status" yaml:"status"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
}
