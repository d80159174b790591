// Package fileutil provides utility functions for working with file paths and file operations.
package fileutil

import (
	"io"
	"os"

	"github.com/wfgate/gh-wfgate/pkg/logger"
)

var log = logger.New("fileutil:fileutil")

// FileExists checks if a file exists and is not a directory.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CopyFile copies a file from src to dst using buffered IO.
func CopyFile(src, dst string) error {
	log.Printf("Copying file: src=%s, dst=%s", src, dst)
	in, err := os.Open(src)
	if err != nil {
		log.Printf("Failed to open source file: %s", err)
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		log.Printf("Failed to create destination file: %s", err)
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	log.Printf("File copied successfully: src=%s, dst=%s", src, dst)
	return out.Sync()
}
