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
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 Executor performs one concrete filesystem action. It is invoked only
// for requests the policy has allowed.
type Executor interface {
	Execute(ctx context.Context, req Request) error
}

// 🏭 NewExecutor creates the default executor backed by the local filesystem
func NewExecutor() Executor {
	return &osExecutor{}
}

type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, req Request) error {
	logger := zerolog.Ctx(ctx)

	switch req.Kind {
	case KindCreateFile:
		return e.createFile(ctx, req.Destination, req.Content)
	case KindCreateDir:
		return e.createDir(ctx, req.Destination)
	case KindMove:
		logger.Warn().Str("source", req.Source).Str("destination", req.Destination).Msg("move operation modifies the filesystem")
		return e.move(ctx, req.Source, req.Destination)
	case KindDelete:
		logger.Warn().Str("destination", req.Destination).Msg("delete operation is destructive and cannot be undone")
		return e.delete(ctx, req.Destination)
	case KindRename:
		logger.Warn().Str("source", req.Source).Str("destination", req.Destination).Msg("rename operation modifies the filesystem")
		return e.rename(ctx, req.Source, req.Destination)
	default:
		return errors.Errorf("Unknown operation: %s", req.Kind)
	}
}

// createFile creates or truncates the file at path and writes content.
// Parent directories are not created; a missing parent is a failure.
func (e *osExecutor) createFile(ctx context.Context, path string, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Errorf("creating file %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("created file")
	return nil
}

// createDir creates the directory at path including missing parents.
// A pre-existing directory is success.
func (e *osExecutor) createDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Errorf("creating directory %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("created directory")
	return nil
}

// move relocates the file or directory tree at source to destination.
// When a plain rename fails (cross-device link is the usual cause) it falls
// back to copy+delete.
func (e *osExecutor) move(ctx context.Context, source, destination string) error {
	if err := os.Rename(source, destination); err == nil {
		zerolog.Ctx(ctx).Info().Str("source", source).Str("destination", destination).Msg("moved")
		return nil
	}

	info, err := os.Lstat(source)
	if err != nil {
		return errors.Errorf("moving %s to %s: %w", source, destination, err)
	}

	if info.IsDir() {
		err = copyTree(source, destination)
	} else {
		err = copyFile(source, destination, info.Mode())
	}
	if err != nil {
		return errors.Errorf("moving %s to %s: %w", source, destination, err)
	}

	if err := os.RemoveAll(source); err != nil {
		return errors.Errorf("removing %s after copy: %w", source, err)
	}

	zerolog.Ctx(ctx).Info().Str("source", source).Str("destination", destination).Msg("moved")
	return nil
}

// delete removes a file, or a directory recursively. A missing path is a
// failure, never a silent no-op.
func (e *osExecutor) delete(ctx context.Context, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Errorf("deleting %s: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return errors.Errorf("deleting directory %s: %w", path, err)
		}
		zerolog.Ctx(ctx).Info().Str("path", path).Msg("deleted directory")
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errors.Errorf("deleting file %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("deleted file")
	return nil
}

// rename renames source to destination, atomic where the filesystem
// supports it.
func (e *osExecutor) rename(ctx context.Context, source, destination string) error {
	if err := os.Rename(source, destination); err != nil {
		return errors.Errorf("renaming %s to %s: %w", source, destination, err)
	}
	zerolog.Ctx(ctx).Info().Str("source", source).Str("destination", destination).Msg("renamed")
	return nil
}

// copyFile copies a single regular file preserving its mode
func copyFile(source, destination string, mode os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return errors.Errorf("opening %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return errors.Errorf("opening %s: %w", destination, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Errorf("copying %s to %s: %w", source, destination, err)
	}
	if err := out.Close(); err != nil {
		return errors.Errorf("closing %s: %w", destination, err)
	}
	return nil
}

// copyTree copies a directory tree preserving file modes
func copyTree(source, destination string) error {
	return filepath.WalkDir(source, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return errors.Errorf("resolving %s relative to %s: %w", path, source, err)
		}
		target := filepath.Join(destination, rel)

		// Symlinks are recreated, never followed; a dangling link copies
		// as a dangling link.
		if d.Type()&os.ModeSymlink != 0 {
			linkTarget, err := os.Readlink(path)
			if err != nil {
				return errors.Errorf("reading symlink %s: %w", path, err)
			}
			if err := os.Symlink(linkTarget, target); err != nil {
				return errors.Errorf("creating symlink %s: %w", target, err)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return errors.Errorf("reading info for %s: %w", path, err)
		}

		if d.IsDir() {
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return errors.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}
		return copyFile(path, target, info.Mode())
	})
}
