package core

// Variant names of a normalize Result.
const (
	VariantOK    = "ok"
	VariantError = "error"
)

// Result is the caller-facing outcome of a normalize call.
type Result struct {
	Variant    string `json:"variant"`
	Adapter    string `json:"adapter,omitempty"`
	Normalized string `json:"normalized,omitempty"`
	Message    string `json:"message,omitempty"`

	err error
}

// OK builds a successful result.
func OK(adapter, normalized string) Result {
	return Result{Variant: VariantOK, Adapter: adapter, Normalized: normalized}
}

// Failure builds an error result carrying a human-readable message.
// cause is kept for errors.Is checks through Err.
func Failure(cause error, message string) Result {
	return Result{Variant: VariantError, Message: message, err: cause}
}

// IsOK reports whether the result is the ok variant.
func (r Result) IsOK() bool { return r.Variant == VariantOK }

// Err returns the validation error behind an error result, or nil.
func (r Result) Err() error {
	if r.IsOK() {
		return nil
	}
	return r.err
}
