package collector

import "errors"

// #region errors

var (
	// ErrNoBackends is returned when a batch names no backends.
	ErrNoBackends = errors.New("no backends configured")
	// ErrAllBackendsFailed is returned when not a single backend answered.
	ErrAllBackendsFailed = errors.New("all backends failed")
)

// #endregion

// #region model-response

// ModelResponse is one successful backend answer. Immutable once collected.
type ModelResponse struct {
	BackendID        string `json:"backend_id"`
	Text             string `json:"text"`
	OutputTokenCount int    `json:"output_token_count"`
}

// Texts returns the response texts in order.
func Texts(responses []ModelResponse) []string {
	out := make([]string, len(responses))
	for i, r := range responses {
		out[i] = r.Text
	}
	return out
}

// #endregion

// #region batch

// Batch describes one fan-out across backends.
type Batch struct {
	Backends        []string
	SystemPrompt    string
	UserText        string
	MaxOutputTokens int
}

// BackendFailure records a backend skipped because its call failed.
type BackendFailure struct {
	BackendID string
	Err       error
}

// Collection is the outcome of a batch, both lists in configured backend order.
type Collection struct {
	Responses []ModelResponse
	Failures  []BackendFailure
}

// #endregion
