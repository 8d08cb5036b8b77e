package types

// SnapshotPostingDocument is one document entry inside a
// SnapshotPostingList.
type SnapshotPostingDocument struct {
	DocId         string           `json:"docId"`
	TermFrequency float64          `json:"termFrequency"`
	Metadata      *PostingMetadata `json:"metadata,omitempty"`
}

// SnapshotPostingList is the internal-snapshot representation of one
// (field, term) posting list.
type SnapshotPostingList struct {
	Field     string                     `json:"field"`
	Term      string                     `json:"term"`
	Documents []SnapshotPostingDocument `json:"documents"`
}

// Snapshot is the internal, fully-faithful export format: it
// carries per-posting metadata and, for the in-memory variant, stored
// documents and the vocabulary.
type Snapshot struct {
	Postings    []SnapshotPostingList      `json:"postings"`
	Stats       []DocLengthEntry           `json:"stats"`
	Documents   map[string][]byte          `json:"documents,omitempty"`
	Vocabulary  []string                   `json:"vocabulary,omitempty"`
}

// WorkerPostingList is the flattened, structured-clone-safe shape used
// by the worker snapshot. IsPrefix and OriginalTerm are carried as
// parallel arrays so metadata is not lost
// across worker handoff, unlike the documented-lossy reference shape.
type WorkerPostingList struct {
	Field            string    `json:"field"`
	Term             string    `json:"term"`
	DocIds           []string  `json:"docIds"`
	TermFrequencies  []float64 `json:"termFrequencies"`
	IsPrefix         []bool    `json:"isPrefix"`
	OriginalTerm     []string  `json:"originalTerm"`
}

// WorkerSnapshot is the transport-safe handoff shape.
type WorkerSnapshot struct {
	Postings []WorkerPostingList `json:"postings"`
	Stats    []DocLengthEntry    `json:"stats"`
}
