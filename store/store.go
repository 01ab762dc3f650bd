package store

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File is an append-only record store: one record per line, nothing is ever rewritten.
//
// Appends aren't synchronized. Concurrent appends of records larger than what the OS writes
// atomically may interleave.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Append writes the record followed by a line feed. The file is opened for this single
// write only and created if missing.
func (f *File) Append(data string) (err error) {
	fd, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	defer func() {
		if closeErr := fd.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close store: %w", closeErr)
		}
	}()

	if _, err = fd.WriteString(data + "\n"); err != nil {
		return fmt.Errorf("append to store: %w", err)
	}

	return nil
}

// Lines reads every record back. A store that was never written to holds no records.
func (f *File) Lines() ([]string, error) {
	fd, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open store: %w", err)
	}
	defer fd.Close()

	var lines []string
	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}

	return lines, nil
}
