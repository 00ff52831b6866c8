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

package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/poiesic/policylens/core"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// Core deterministic encoding: identical values give identical bytes.
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("storage: CBOR decoder initialization failed: " + err.Error())
	}
}

func marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

func unmarshal(data []byte, v any) error {
	if err := decMode.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return nil
}

// MarshalVector serializes an embedding vector to bytes.
func MarshalVector(v []float32) ([]byte, error) {
	return marshal(v)
}

// UnmarshalVector deserializes an embedding vector from bytes.
func UnmarshalVector(data []byte) ([]float32, error) {
	var v []float32
	if err := unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// MarshalPassage serializes a Passage to bytes.
func MarshalPassage(p *core.Passage) ([]byte, error) {
	return marshal(p)
}

// UnmarshalPassage deserializes a Passage from bytes.
func UnmarshalPassage(data []byte) (*core.Passage, error) {
	var p core.Passage
	if err := unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalIndexedDocument serializes an IndexedDocument to bytes.
func MarshalIndexedDocument(d *core.IndexedDocument) ([]byte, error) {
	return marshal(d)
}

// UnmarshalIndexedDocument deserializes an IndexedDocument from bytes.
func UnmarshalIndexedDocument(data []byte) (*core.IndexedDocument, error) {
	var d core.IndexedDocument
	if err := unmarshal(data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// cachedEmbedding is the stored form of an embedding cache entry.
// The text is kept so a hash collision reads as a miss.
type cachedEmbedding struct {
	Text   string    `cbor:"1,keyasint"`
	Vector []float32 `cbor:"2,keyasint"`
}

// MarshalCachedEmbedding serializes an embedding cache entry to bytes.
func MarshalCachedEmbedding(text string, vector []float32) ([]byte, error) {
	return marshal(&cachedEmbedding{Text: text, Vector: vector})
}

// UnmarshalCachedEmbedding deserializes an embedding cache entry from bytes.
func UnmarshalCachedEmbedding(data []byte) (string, []float32, error) {
	var e cachedEmbedding
	if err := unmarshal(data, &e); err != nil {
		return "", nil, err
	}
	return e.Text, e.Vector, nil
}
