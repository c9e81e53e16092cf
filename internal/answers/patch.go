package answers

import (
	"encoding/json"
	"fmt"
)

// InvalidPatchError reports a patch that does not satisfy the answer schema.
type InvalidPatchError struct {
	Err error
}

func (e *InvalidPatchError) Error() string {
	return fmt.Sprintf("invalid answers: %v", e.Err)
}

func (e *InvalidPatchError) Unwrap() error { return e.Err }

// Patch is a partial Answer Set keyed by field. A present key with a nil
// value clears that field; absent keys are left untouched.
type Patch map[Field]any

// NewPatch returns an empty patch.
func NewPatch() Patch {
	return Patch{}
}

// Set records value v for field f and returns p for chaining.
func (p Patch) Set(f Field, v any) Patch {
	p[f] = v
	return p
}

// Clear records an explicit removal of field f.
func (p Patch) Clear(f Field) Patch {
	p[f] = nil
	return p
}

// ParsePatch decodes and validates a JSON object into a Patch.
func ParsePatch(data []byte) (Patch, error) {
	var raw map[Field]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &InvalidPatchError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	p := Patch(raw)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks p against the answer schema.
func (p Patch) Validate() error {
	b, err := json.Marshal(p)
	if err != nil {
		return &InvalidPatchError{Err: err}
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return &InvalidPatchError{Err: err}
	}

	schema, err := compiled()
	if err != nil {
		return fmt.Errorf("compile answer schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return &InvalidPatchError{Err: err}
	}
	return nil
}

// Merge shallow-merges p over a and returns the result. Each present key
// replaces the whole field, sub-records included. a is not modified.
func (a AnswerSet) Merge(p Patch) (AnswerSet, error) {
	if len(p) == 0 {
		return a.Clone(), nil
	}
	if err := p.Validate(); err != nil {
		return a, err
	}

	fields, err := a.fields()
	if err != nil {
		return a, fmt.Errorf("encode answers: %w", err)
	}
	for f, v := range p {
		raw, err := json.Marshal(v)
		if err != nil {
			return a, &InvalidPatchError{Err: fmt.Errorf("%s: %w", f, err)}
		}
		fields[string(f)] = raw
	}

	var out AnswerSet
	if err := decodeFields(fields, &out); err != nil {
		return a, &InvalidPatchError{Err: err}
	}
	return out, nil
}
