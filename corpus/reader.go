// Copyright 2025 Poiesic Systems
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

package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// Reader extracts plain text from a file.
type Reader interface {
	CanRead(path string) bool
	ReadText(path string) (string, error)
}

// TextReader reads .txt files, dropping invalid UTF-8 sequences.
type TextReader struct{}

var _ Reader = (*TextReader)(nil)

func (r *TextReader) CanRead(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

func (r *TextReader) ReadText(path string) (string, error) {
	return ReadLenient(path)
}

// DocconvReader converts pdf, docx and odt files to text.
type DocconvReader struct{}

var _ Reader = (*DocconvReader)(nil)

func (r *DocconvReader) CanRead(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf", ".docx", ".odt":
		return true
	}
	return false
}

func (r *DocconvReader) ReadText(path string) (string, error) {
	// docconv reports a missing file without wrapping it; stat first so the
	// caller can test for fs.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("failed to convert document %s: %w", path, err)
	}
	return strings.ToValidUTF8(res.Body, ""), nil
}

// DefaultReaders returns the lenient text reader and the docconv reader.
func DefaultReaders() []Reader {
	return []Reader{&TextReader{}, &DocconvReader{}}
}

// ReadLenient reads the file at path as UTF-8 text. Undecodable byte
// sequences are dropped silently. A missing file yields an error wrapping
// fs.ErrNotExist.
func ReadLenient(path string) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading text file: %w", err)
	}
	return strings.ToValidUTF8(string(buf), ""), nil
}

// ReadText reads path with the first default reader that accepts it.
func ReadText(path string) (string, error) {
	reader, err := findReader(DefaultReaders(), path)
	if err != nil {
		return "", err
	}
	return reader.ReadText(path)
}

func findReader(readers []Reader, path string) (Reader, error) {
	for _, r := range readers {
		if r.CanRead(path) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
