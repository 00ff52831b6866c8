package storage

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/policylens/core"
)

func TestVectorEncoding(t *testing.T) {
	vector := []float32{0, 1, -1, 0.1, 3.4028235e38, float32(math.SmallestNonzeroFloat32)}

	data, err := MarshalVector(vector)
	require.NoError(t, err)

	decoded, err := UnmarshalVector(data)
	require.NoError(t, err)
	assert.Equal(t, vector, decoded, "float32 values survive exactly")

	again, err := MarshalVector(vector)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is deterministic")
}

func TestPassageEncoding(t *testing.T) {
	p := &core.Passage{
		Id:       core.ID(math.MaxUint64),
		Document: "national-white-paper",
		Ordinal:  12,
		Text:     "Adaptation measures protect vulnerable communities.",
		Vector:   []float32{0.6, 0.8},
	}
	data, err := MarshalPassage(p)
	require.NoError(t, err)

	decoded, err := UnmarshalPassage(data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestIndexedDocumentEncoding(t *testing.T) {
	d := &core.IndexedDocument{
		Name:      "plan",
		Checksum:  core.IDFromContent("text"),
		Passages:  3,
		IndexedAt: time.Date(2025, 3, 1, 10, 30, 0, 123456789, time.UTC),
	}
	data, err := MarshalIndexedDocument(d)
	require.NoError(t, err)

	decoded, err := UnmarshalIndexedDocument(data)
	require.NoError(t, err)
	assert.Equal(t, d.Name, decoded.Name)
	assert.Equal(t, d.Checksum, decoded.Checksum)
	assert.Equal(t, d.Passages, decoded.Passages)
	assert.True(t, d.IndexedAt.Equal(decoded.IndexedAt))
}

func TestUnmarshal_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated array", []byte{0x82, 0x01}},
		{"wrong type", []byte{0x63, 'a', 'b', 'c'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalVector(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}

	_, err := UnmarshalPassage([]byte{0xff})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestCachedEmbeddingEncoding(t *testing.T) {
	data, err := MarshalCachedEmbedding("solar power", []float32{0.5, -0.25})
	require.NoError(t, err)

	text, vector, err := UnmarshalCachedEmbedding(data)
	require.NoError(t, err)
	assert.Equal(t, "solar power", text)
	assert.Equal(t, []float32{0.5, -0.25}, vector)
}
