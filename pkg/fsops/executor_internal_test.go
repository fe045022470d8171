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

package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestCopyTree tests the copy fallback used for cross-device moves
func TestCopyTree(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "src")

	require.NoError(t, os.MkdirAll(filepath.Join(source, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "nested", "f.txt"), []byte("deep"), 0640))

	destination := filepath.Join(tmpDir, "dst")
	require.NoError(t, copyTree(source, destination))

	content, err := os.ReadFile(filepath.Join(destination, "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "deep", string(content))

	info, err := os.Stat(filepath.Join(destination, "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

// 🧪 TestCopyTreeRecreatesSymlinks tests that links are recreated, not
// followed or materialized
func TestCopyTreeRecreatesSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(source, 0755))

	require.NoError(t, os.WriteFile(filepath.Join(source, "real.txt"), []byte("x"), 0644))
	require.NoError(t, os.Symlink("real.txt", filepath.Join(source, "link")))

	destination := filepath.Join(tmpDir, "dst")
	require.NoError(t, copyTree(source, destination))

	target, err := os.Readlink(filepath.Join(destination, "link"))
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)
}

// 🧪 TestCopyTreeDanglingSymlink tests that a dangling link copies as a
// dangling link instead of failing the whole tree
func TestCopyTreeDanglingSymlink(t *testing.T) {
	tmpDir := t.TempDir()
	source := filepath.Join(tmpDir, "src")
	require.NoError(t, os.MkdirAll(source, 0755))

	require.NoError(t, os.Symlink("/nonexistent/target", filepath.Join(source, "dangling")))

	destination := filepath.Join(tmpDir, "dst")
	require.NoError(t, copyTree(source, destination))

	target, err := os.Readlink(filepath.Join(destination, "dangling"))
	require.NoError(t, err)
	assert.Equal(t, "/nonexistent/target", target)

	// Lstat sees the link; Stat must not resolve it to a real file
	_, err = os.Lstat(filepath.Join(destination, "dangling"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(destination, "dangling"))
	assert.True(t, os.IsNotExist(err))
}
