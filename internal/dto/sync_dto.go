package dto

// ValidationStatus is the outcome class of a consistency check.
type ValidationStatus int

const (
	// ValidationConsistent means both stores agree.
	ValidationConsistent ValidationStatus = 0
	// ValidationInconsistent means repairable divergences were found.
	ValidationInconsistent ValidationStatus = 1
	// ValidationFatal means a structural mismatch (collection missing on
	// either side) aborted the check early.
	ValidationFatal ValidationStatus = -1
)

// ConsistencyViolation is one divergence between the vector store and
// the relational database.
type ConsistencyViolation struct {
	Collection string `json:"collection"`
	Kind       string `json:"kind"`
	DocumentId string `json:"document_id,omitempty"`
	Detail     string `json:"detail"`
}

// Violation kinds reported by the validator.
const (
	ViolationCollectionMissing       = "collection_missing"
	ViolationCollectionCountMismatch = "collection_count_mismatch"
	ViolationMaxResultsMismatch      = "max_results_mismatch"
	ViolationCountMismatch           = "count_mismatch"
	ViolationRowMissing              = "row_missing"
	ViolationDocumentMissing         = "document_missing"
	ViolationContentMismatch         = "content_mismatch"
	ViolationFilenameMismatch        = "filename_mismatch"
	ViolationSizeMismatch            = "size_mismatch"
)

// ValidationReport is the read-only result of a consistency check.
type ValidationReport struct {
	Status     ValidationStatus       `json:"status"`
	Violations []ConsistencyViolation `json:"violations"`
}

// SyncReport summarizes the repairs applied by a synchronization run.
// The vector store is ground truth; rows are created, updated and hard
// deleted to match it.
type SyncReport struct {
	CollectionsCreated int `json:"collections_created"`
	CollectionsDeleted int `json:"collections_deleted"`
	EmbeddingsCreated  int `json:"embeddings_created"`
	EmbeddingsUpdated  int `json:"embeddings_updated"`
	EmbeddingsDeleted  int `json:"embeddings_deleted"`
}
