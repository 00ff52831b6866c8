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


// Package ai provides abstractions for the embedding services used by policylens.
//
// The keyword correlator only needs one capability from a model: turning a
// batch of strings into fixed-dimension vectors. This package defines that
// contract so analysis code depends on an interface rather than on a
// particular model runtime.
//
// # Design Principles
//
//   - Embedder: generates vector embeddings from text
//   - Provider: owns an Embedder and its lifecycle
//   - TimeoutEmbedder: bounds every call to a provider with a deadline and
//     reports slow responses as ErrEmbeddingTimeout
//
// # Implementation Packages
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder) return
// INTERFACE types to enforce abstraction. Test utility constructors
// (mock.NewMockEmbedder) return CONCRETE types to enable test assertions
// via CallCount, EmbeddedTexts and the injectable function fields.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithEmbeddingModel("embeddinggemma"))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, []string{"climate resilience"})
package ai
