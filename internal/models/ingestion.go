package models

// RowFailure records why a single seed row could not be stored
type RowFailure struct {
	Row    int    `json:"row"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// IngestionResult is the outcome of loading one seed file. A failed row never
// aborts the batch; it is recorded here instead.
type IngestionResult struct {
	Source    string       `json:"source"`
	Succeeded []int        `json:"succeeded"`
	Failed    []RowFailure `json:"failed"`
}

func (r *IngestionResult) AddSuccess(id int) {
	r.Succeeded = append(r.Succeeded, id)
}

func (r *IngestionResult) AddFailure(row int, id, reason string) {
	r.Failed = append(r.Failed, RowFailure{Row: row, ID: id, Reason: reason})
}
