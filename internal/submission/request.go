package submission

import (
	"encoding/json"
	"fmt"

	"github.com/abhisek/immowert/internal/answers"
)

// Request is one submission to the valuation webhook.
type Request struct {
	// ID correlates the request with its event log entry. Optional.
	ID string

	Answers answers.AnswerSet

	// Original is set for comparison submissions and carries the answers
	// of the property being compared against.
	Original *answers.AnswerSet
}

// IsComparison reports whether r asks for a comparison valuation.
func (r Request) IsComparison() bool {
	return r.Original != nil
}

// MarshalJSON encodes the answers as a flat object. Comparison requests
// add isComparison and the original answers under originalData.
func (r Request) MarshalJSON() ([]byte, error) {
	if !r.IsComparison() {
		return json.Marshal(r.Answers)
	}

	b, err := json.Marshal(r.Answers)
	if err != nil {
		return nil, err
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, err
	}

	orig, err := json.Marshal(r.Original)
	if err != nil {
		return nil, fmt.Errorf("encode original answers: %w", err)
	}
	body["isComparison"] = json.RawMessage("true")
	body["originalData"] = orig
	return json.Marshal(body)
}
