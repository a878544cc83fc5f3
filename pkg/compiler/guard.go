// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package compiler

import (
	"encoding/json"
)

// DefaultMaxTraces is the trace ceiling when none is configured.
const DefaultMaxTraces = 64

// CheckLimits fails with KindTooManyTraces when count exceeds max.
func CheckLimits(count, max int) error {
	if count > max {
		return newError(KindTooManyTraces, "trace count %d exceeds limit %d", count, max)
	}
	return nil
}

// checkSerializable encodes the payload once and returns the bytes so the
// caller can reuse them.
func checkSerializable(p *Payload) ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, newError(KindNotSerializable, "payload is not JSON-serializable: %v", err)
	}
	return b, nil
}
