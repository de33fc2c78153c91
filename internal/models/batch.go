package models

// EntityFailure marks an entity whose history could not be fetched.
type EntityFailure struct {
	EntityID string `json:"entity_id"`
	Scope    string `json:"scope"`
	Error    string `json:"error"`
}

// BatchResult carries per-entity results alongside the entities that failed,
// letting callers tell "nothing flagged" apart from "fetch failed".
type BatchResult[T any] struct {
	Items     []T             `json:"items"`
	Failures  []EntityFailure `json:"failures"`
	Evaluated int             `json:"evaluated"`
	Message   string          `json:"message,omitempty"`
}

// Partial reports whether at least one entity failed.
func (b BatchResult[T]) Partial() bool {
	return len(b.Failures) > 0
}
