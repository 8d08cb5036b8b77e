package types

// BulkAddOptions configures addBulk.
type BulkAddOptions struct {
	// BatchSize is used unless Adaptive is set; a value <= 0 means 500.
	BatchSize int

	Adaptive     bool
	MinBatchSize int
	MaxBatchSize int
	MaxMemoryMB  int

	// ProgressInterval, when > 0, streams a progress callback every N
	// documents instead of only between batches.
	ProgressInterval int

	OnProgress func(processed, total int)
}

// RecoveryOptions configures addBulkWithRecovery.
type RecoveryOptions struct {
	BulkAddOptions

	ContinueOnError     bool
	EnableCheckpointing bool
	CheckpointInterval  int
	OnCheckpoint        func(Checkpoint)
}

// FailedDocument records one document that failed processing inside
// addBulkWithRecovery.
type FailedDocument struct {
	Index int
	DocId string
	Error string
}

// Checkpoint is the progress record addBulkWithRecovery returns/emits.
type Checkpoint struct {
	ProcessedCount     int
	LastSuccessfulBatch int
	FailedDocuments    []FailedDocument
	TimestampUnixNano  int64
}
