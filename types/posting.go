package types

// PostingMetadata mirrors the subset of TokenMetadata that survives
// into a persisted posting: whether the term is an edge n-gram prefix,
// and (when it is) the full term it was derived from.
type PostingMetadata struct {
	IsPrefix     bool   `json:"isPrefix,omitempty"`
	OriginalTerm string `json:"originalTerm,omitempty"`
}

// TermPosting pairs a document with its term frequency and optional
// metadata for a single (field, term) pair.
type TermPosting struct {
	DocId         DocId            `json:"docId"`
	TermFrequency float64          `json:"termFrequency"`
	Metadata      *PostingMetadata `json:"metadata,omitempty"`
}

// WirePosting is the JSON shape a posting round-trips through when
// it goes into the codec's json path: the codec itself only knows
// about strings/ints, so the engine's encodePostingChunk pre-serializes
// each posting into one of these before handing the array to codec.Encode.
type WirePosting struct {
	DocId         string           `json:"docId"`
	TermFrequency float64          `json:"termFrequency"`
	Metadata      *PostingMetadata `json:"metadata,omitempty"`
}

// StoredPostingChunk is the persisted record for compound key
// (field, term, chunk) in the `terms` object store.
type StoredPostingChunk struct {
	Field                   string  `json:"field"`
	Term                    string  `json:"term"`
	Chunk                   int     `json:"chunk"`
	Payload                 []byte  `json:"payload"`
	Encoding                string  `json:"encoding"` // "delta-varint" | "json"
	DocFrequency            int     `json:"docFrequency"`
	InverseDocumentFrequency *float64 `json:"inverseDocumentFrequency,omitempty"`
	AccessCount             *int64  `json:"accessCount,omitempty"`
	LastAccessedAt          *int64  `json:"lastAccessedAt,omitempty"`
}

const (
	EncodingDeltaVarint = "delta-varint"
	EncodingJSON        = "json"
)
