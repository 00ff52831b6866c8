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

// Package storage defines the persistence contracts for policylens.
//
// Two stores exist. An EmbeddingCache keeps vectors computed by an
// embedding model so repeated analysis of the same corpus does not call the
// provider again. A PassageRepository holds the semantic search index:
// document passages with their vectors and per-document index state.
//
// The badger subpackage implements both on BadgerDB. Values are encoded
// with CBOR.
//
// # Usage
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	passages, err := badger.NewPassageRepository(backend)
//
// Use in tests with in-memory storage:
//
//	cache, passages, backend, err := badger.NewMemoryRepositories()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
