package domain

// StepReport is the outcome of one best-effort workflow step
type StepReport struct {
	Success bool     `json:"success"`
	Skipped bool     `json:"skipped,omitempty"`
	Count   int      `json:"count"`
	Errors  []string `json:"errors,omitempty"`
}

// Fail records a per-item failure; the step keeps going
func (r *StepReport) Fail(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Finish sets Success from the collected errors
func (r *StepReport) Finish() StepReport {
	r.Success = len(r.Errors) == 0
	return *r
}

// SkippedStep is a successful no-op step
func SkippedStep() StepReport {
	return StepReport{Success: true, Skipped: true}
}

// MediaReport groups the sub-steps of media reconciliation
type MediaReport struct {
	Prune        StepReport `json:"prune"`
	Attach       StepReport `json:"attach"`
	Upload       StepReport `json:"upload"`
	Reorder      StepReport `json:"reorder"`
	CoverImageID int64      `json:"cover_image_id,omitempty"`
}

// Success is true iff no sub-step recorded an error
func (m MediaReport) Success() bool {
	return len(m.Errors()) == 0
}

// Errors flattens the sub-step errors in workflow order
func (m MediaReport) Errors() []string {
	var out []string
	for _, r := range []StepReport{m.Prune, m.Attach, m.Upload, m.Reorder} {
		out = append(out, r.Errors...)
	}
	return out
}

// ProductSummary is the subset of the remote product returned to callers
type ProductSummary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Handle string `json:"handle,omitempty"`
	Status string `json:"status,omitempty"`
}

// Result is the terminal outcome of one product assembly run
type Result struct {
	RunID      string          `json:"run_id"`
	Success    bool            `json:"success"`
	Action     Action          `json:"action,omitempty"`
	Product    *ProductSummary `json:"product,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	Media      *MediaReport    `json:"media,omitempty"`
	Metafields *StepReport     `json:"metafields,omitempty"`
	Variants   *StepReport     `json:"variants,omitempty"`
	Taxes      *StepReport     `json:"taxes,omitempty"`
	Warnings   []string        `json:"warnings,omitempty"`
}
