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

// Package search provides semantic passage search over policy documents.
//
// An Indexer embeds the non-empty lines of a document in batches and
// stores them as passages with unit-normalized vectors. A Searcher embeds
// a query the same way and ranks passages by inner product, which for
// unit vectors is cosine similarity.
//
// Documents are fingerprinted on indexing; re-indexing an unchanged
// document is a no-op and a changed document replaces its old passages.
package search
