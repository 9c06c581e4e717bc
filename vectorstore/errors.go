package vectorstore

import (
	"fmt"
)

// ErrorCode represents specific error types in vector store operations
type ErrorCode string

const (
	ErrCodeInitFailed      ErrorCode = "INIT_FAILED"
	ErrCodeUpsertFailed    ErrorCode = "UPSERT_FAILED"
	ErrCodeSearchFailed    ErrorCode = "SEARCH_FAILED"
	ErrCodeDeleteFailed    ErrorCode = "DELETE_FAILED"
	ErrCodeInvalidDims     ErrorCode = "INVALID_DIMENSIONS"
	ErrCodeInvalidDistance ErrorCode = "INVALID_DISTANCE"
	ErrCodeEmbeddingFailed ErrorCode = "EMBEDDING_FAILED"
)

// VectorStoreError represents an error that occurred in vector store operations
type VectorStoreError struct {
	Code    ErrorCode
	Op      string
	Store   string
	Message string
	Err     error
}

func (e *VectorStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (store: %s, operation: %s) - %v",
			e.Code, e.Message, e.Store, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s (store: %s, operation: %s)",
		e.Code, e.Message, e.Store, e.Op)
}

func (e *VectorStoreError) Unwrap() error {
	return e.Err
}

// Helper functions to create errors
func NewInitFailedError(store string, err error) error {
	return &VectorStoreError{
		Code:    ErrCodeInitFailed,
		Op:      "Init",
		Store:   store,
		Message: "failed to initialize collection",
		Err:     err,
	}
}

func NewUpsertFailedError(store string, err error) error {
	return &VectorStoreError{
		Code:    ErrCodeUpsertFailed,
		Op:      "Upsert",
		Store:   store,
		Message: "failed to upsert records",
		Err:     err,
	}
}

func NewSearchFailedError(store string, err error) error {
	return &VectorStoreError{
		Code:    ErrCodeSearchFailed,
		Op:      "Search",
		Store:   store,
		Message: "failed to perform similarity search",
		Err:     err,
	}
}

func NewDeleteFailedError(store string, err error) error {
	return &VectorStoreError{
		Code:    ErrCodeDeleteFailed,
		Op:      "Delete",
		Store:   store,
		Message: "failed to delete records",
		Err:     err,
	}
}

func NewInvalidDimensionsError(store string, expected, got int) error {
	return &VectorStoreError{
		Code:    ErrCodeInvalidDims,
		Op:      "Upsert",
		Store:   store,
		Message: fmt.Sprintf("invalid vector dimensions: expected %d, got %d", expected, got),
	}
}

func NewInvalidDistanceError(store string, distance float32) error {
	return &VectorStoreError{
		Code:    ErrCodeInvalidDistance,
		Op:      "Search",
		Store:   store,
		Message: fmt.Sprintf("cosine distance %f outside [0,2]; store is not using cosine distance over normalized vectors", distance),
	}
}

func NewEmbeddingFailedError(store string, err error) error {
	return &VectorStoreError{
		Code:    ErrCodeEmbeddingFailed,
		Op:      "Embedding",
		Store:   store,
		Message: "failed to generate embeddings",
		Err:     err,
	}
}
