package answers

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const patchSchemaURL = "schema://answers/patch.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the JSON Schema that every Patch must satisfy. It is
// generated from Registry so options and bounds have a single source.
func Schema() map[string]any {
	props := make(map[string]any, len(Registry))
	for _, d := range Registry {
		props[string(d.Field)] = nullable(fieldSchema(d))
	}
	return map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

func fieldSchema(d Definition) map[string]any {
	switch d.Kind {
	case KindChoice:
		return enumOf(d.Options)
	case KindInt:
		s := map[string]any{"type": "integer", "minimum": d.Min}
		if d.Max > 0 {
			s["maximum"] = d.Max
		}
		return s
	case KindBool:
		return map[string]any{"type": "boolean"}
	case KindText:
		return map[string]any{"type": "string", "maxLength": 200}
	case KindZip:
		return map[string]any{"type": "string", "pattern": "^[0-9]{5}$"}
	case KindMulti:
		return map[string]any{
			"type":        "array",
			"items":       enumOf(d.Options),
			"uniqueItems": true,
		}
	case KindRenovations:
		return map[string]any{
			"type":          "object",
			"propertyNames": enumOf(RenovationAreas),
			"additionalProperties": map[string]any{
				"type":     "object",
				"required": []string{"done"},
				"properties": map[string]any{
					"done":   map[string]any{"type": "boolean"},
					"period": nullable(enumOf(RenovationPeriods)),
					"extent": nullable(enumOf(RenovationExtents)),
				},
				"additionalProperties": false,
			},
		}
	case KindKitchen:
		return subRecord("included", "condition", KitchenConditions)
	case KindEnergy:
		return subRecord("available", "class", EnergyClasses)
	}
	return map[string]any{}
}

func subRecord(flag, choice string, opts []Option) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{flag},
		"properties": map[string]any{
			flag:   map[string]any{"type": "boolean"},
			choice: nullable(enumOf(opts)),
		},
		"additionalProperties": false,
	}
}

func enumOf(opts []Option) map[string]any {
	vals := make([]any, len(opts))
	for i, o := range opts {
		vals[i] = o.Value
	}
	return map[string]any{"type": "string", "enum": vals}
}

func nullable(s map[string]any) map[string]any {
	return map[string]any{"anyOf": []any{map[string]any{"type": "null"}, s}}
}

// compiled returns the compiled patch schema, compiling it once.
func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go maps of typed slices.
		b, err := json.Marshal(Schema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(patchSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(patchSchemaURL)
	})
	return compiledSchema, compileErr
}
