package badger

import (
	"encoding/binary"

	"github.com/poiesic/policylens/core"
)

// Key prefixes for different data types
const (
	passagePrefix         = "psg:"
	passageDocumentPrefix = "psgd:"
	passageIDSeq          = "psgseq"
	indexedDocumentPrefix = "idxdoc:"
	embeddingPrefix       = "emb:"
)

// makePassageKey generates a key for a passage by ID.
// Format: prefix + 8-byte big-endian ID
func makePassageKey(id core.ID) []byte {
	buf := make([]byte, len(passagePrefix)+8)
	offset := copy(buf, passagePrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialDocumentKey generates the prefix shared by a document's passage index keys.
// Format: prefix:document\x00
func makePartialDocumentKey(document string) []byte {
	buf := make([]byte, 0, len(passageDocumentPrefix)+len(document)+1)
	buf = append(buf, passageDocumentPrefix...)
	buf = append(buf, document...)
	return append(buf, 0)
}

// makeDocumentKey generates a composite key for the document index.
// Format: prefix:document\x00 + ordinal + ID
func makeDocumentKey(document string, ordinal int, id core.ID) []byte {
	partial := makePartialDocumentKey(document)
	buf := make([]byte, len(partial)+16)
	offset := copy(buf, partial)
	// Write in BigEndian order so lexicographic sort follows ordinal order
	binary.BigEndian.PutUint64(buf[offset:], uint64(ordinal))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// idFromDocumentKey extracts the passage ID from a document index key.
func idFromDocumentKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}

// makeIndexedDocumentKey generates a key for a document's index state.
func makeIndexedDocumentKey(name string) []byte {
	return []byte(indexedDocumentPrefix + name)
}

// makeEmbeddingKey generates a key for a cached embedding.
// Format: prefix:model\x00 + 8-byte content hash of text
func makeEmbeddingKey(model, text string) []byte {
	buf := make([]byte, 0, len(embeddingPrefix)+len(model)+9)
	buf = append(buf, embeddingPrefix...)
	buf = append(buf, model...)
	buf = append(buf, 0)
	return binary.BigEndian.AppendUint64(buf, uint64(core.IDFromContent(text)))
}
