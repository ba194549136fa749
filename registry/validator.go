package registry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// metadataSchema constrains subscription metadata. The map stays open —
// unknown scalar keys are stored untouched — but "courseid", the only
// interpreted key, must be an integer or a digit string so it can be
// canonicalized for filtering.
const metadataSchema = `{
	"type": "object",
	"properties": {
		"courseid": {
			"type": ["string", "integer"],
			"pattern": "^[0-9]+$"
		}
	},
	"additionalProperties": {
		"type": ["string", "number", "integer", "boolean"]
	}
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func compiledMetadataSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(metadataSchema), &doc); err != nil {
			compileErr = fmt.Errorf("unmarshal metadata schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const url = "lmsflow://schema/webhook-metadata"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(url)
	})
	return compiledSchema, compileErr
}

// ValidateMetadata checks a raw metadata map against the schema.
// A nil map is valid.
func ValidateMetadata(meta map[string]any) error {
	if meta == nil {
		return nil
	}

	schema, err := compiledMetadataSchema()
	if err != nil {
		return fmt.Errorf("metadata schema: %w", err)
	}

	// The compiler validates decoded JSON values, so round-trip the map
	// to normalize ints and other Go scalars into JSON types.
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}

	return schema.Validate(doc)
}

// CanonicalizeMetadata converts a validated raw metadata map into the
// stored form: every value rendered as a string, with numbers in plain
// decimal notation. "courseid" in particular always ends up a decimal
// string, so the dispatch filter compares one canonical type instead of
// relying on loose cross-type equality.
func CanonicalizeMetadata(meta map[string]any) map[string]string {
	if len(meta) == 0 {
		return nil
	}

	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = formatScalar(v)
	}
	return out
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
