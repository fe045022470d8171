// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsops_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fileops/pkg/fsops"
)

// 🧪 TestResultJSON tests the wire shape of a result row
func TestResultJSON(t *testing.T) {
	tests := []struct {
		name     string
		res      fsops.Result
		expected string
	}{
		{
			name: "success_has_null_error",
			res: fsops.Result{
				Operation:   fsops.KindCreateFile,
				Destination: "/tmp/x.txt",
				Success:     true,
			},
			expected: `{"operation":"create_file","destination":"/tmp/x.txt","success":true,"error":null}`,
		},
		{
			name: "failure_carries_message",
			res: fsops.Result{
				Operation:   fsops.KindDelete,
				Destination: "/tmp/x.txt",
				Error:       fsops.DenialAdvisory,
			},
			expected: `{"operation":"delete","destination":"/tmp/x.txt","success":false,"error":"` + fsops.DenialAdvisory + `"}`,
		},
		{
			name: "source_included_when_set",
			res: fsops.Result{
				Operation:   fsops.KindMove,
				Destination: "/tmp/b",
				Source:      "/tmp/a",
				Success:     true,
			},
			expected: `{"operation":"move","destination":"/tmp/b","source":"/tmp/a","success":true,"error":null}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.res)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

// 🧪 TestBatchResultJSON tests the aggregate's field names
func TestBatchResultJSON(t *testing.T) {
	batch := &fsops.BatchResult{
		Total:     2,
		Succeeded: 1,
		Failed:    1,
		Results: []fsops.Result{
			{Operation: fsops.KindCreateDir, Destination: "/tmp/d", Success: true},
			{Operation: fsops.KindCreateFile, Destination: "/tmp/x", Error: "Operation failed"},
		},
	}

	data, err := json.Marshal(batch)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(2), decoded["total_operations"])
	assert.Equal(t, float64(1), decoded["successful_operations"])
	assert.Equal(t, float64(1), decoded["failed_operations"])

	rows, ok := decoded["results"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)

	first, ok := rows[0].(map[string]any)
	require.True(t, ok)
	assert.Nil(t, first["error"])
	assert.Contains(t, first, "error")
}
