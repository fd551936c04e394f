package thesis

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrSourceMissing is returned when the file to copy vanished after it was listed
var ErrSourceMissing = errors.New("source file missing")

// Swappable in tests to simulate I/O failures.
var (
	removeFile = os.Remove
	openSource = os.Open
	statSource = os.Stat
)

// UniqueDestination returns dst if nothing exists there, otherwise the first
// name_1.ext, name_2.ext, ... that is free. A candidate longer than maxPath ends the
// search with ErrPathTooLong since every further suffix is at least as long.
func UniqueDestination(dst string, maxPath int) (string, error) {
	return uniqueDestination(dst, maxPath, isFree)
}

func uniqueDestination(dst string, maxPath int, isFree func(string) (bool, error)) (string, error) {
	if PathTooLong(dst, maxPath) {
		return "", fmt.Errorf("%w: %s", ErrPathTooLong, dst)
	}

	free, err := isFree(dst)
	if err != nil || free {
		return dst, err
	}

	ext := filepath.Ext(dst)
	base := strings.TrimSuffix(dst, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if PathTooLong(candidate, maxPath) {
			return "", fmt.Errorf("%w: no free name for %s", ErrPathTooLong, dst)
		}
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, err
}

// checkSource reports whether src can still be copied, using the same errors as CopyFile
func checkSource(src string) error {
	info, err := statSource(src)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source %s is not a regular file", src)
	}
	return nil
}

// CopyFile copies src to dst, which must not exist yet, and carries over the
// permission bits and modification time. Every chunk is also written to progress
// when it is not nil. A partially written dst is removed on failure.
func CopyFile(src, dst string, progress io.Writer) (err error) {
	in, err := openSource(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrSourceMissing, src)
		}
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	var w io.Writer = out
	if progress != nil {
		w = io.MultiWriter(out, progress)
	}
	if _, err = io.Copy(w, in); err != nil {
		return fmt.Errorf("failed to copy data: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	if err = os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to copy permissions: %w", err)
	}
	if err = os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("failed to copy modification time: %w", err)
	}
	return nil
}
