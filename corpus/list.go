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
	"io/fs"
	"path/filepath"
	"strings"
)

// excluded names hold source references rather than policy text.
// Matching is exact and case-sensitive.
var excluded = map[string]bool{
	"Source.txt":       true,
	"Source Link.txt":  true,
	"Source Links.txt": true,
}

// DocFile is a document found while walking a corpus directory.
type DocFile struct {
	Name string
	Path string
}

// IsExcluded reports whether name is a source-reference file.
func IsExcluded(name string) bool {
	return excluded[name]
}

// ListDocs walks root and returns every .txt file except the
// source-reference files, in walk order.
func ListDocs(root string) ([]DocFile, error) {
	return listMatching(root, func(name string) bool {
		return strings.HasSuffix(name, ".txt")
	})
}

// ListReadable walks root and returns every file that one of readers can
// read, applying the same exclusions as ListDocs.
func ListReadable(root string, readers ...Reader) ([]DocFile, error) {
	if len(readers) == 0 {
		readers = DefaultReaders()
	}
	return listMatching(root, func(name string) bool {
		_, err := findReader(readers, name)
		return err == nil
	})
}

func listMatching(root string, match func(name string) bool) ([]DocFile, error) {
	var docs []DocFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if IsExcluded(name) || !match(name) {
			return nil
		}
		docs = append(docs, DocFile{Name: name, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing documents in %s: %w", root, err)
	}
	return docs, nil
}

// Names returns the file names of docs.
func Names(docs []DocFile) []string {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Name
	}
	return names
}
