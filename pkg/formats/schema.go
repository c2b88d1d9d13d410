package formats

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed model.schema.json
var modelSchemaJSON []byte

const modelSchemaURL = "https://github.com/Faultbox/boxedit/model.schema.json"

// FieldError is a single validation failure. Path is a JSON pointer to the
// offending value ("" for the document root) and Keyword the schema keyword
// that failed, such as "required" or "additionalProperties".
type FieldError struct {
	Path    string
	Keyword string
	Message string
}

func (e FieldError) String() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

// ValidationResult is the outcome of ValidateModel.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

var (
	modelSchema = mustCompileSchema()
	printer     = message.NewPrinter(language.English)
)

func mustCompileSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(modelSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("formats: model schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(modelSchemaURL, doc); err != nil {
		panic(fmt.Sprintf("formats: model schema: %v", err))
	}
	sch, err := c.Compile(modelSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("formats: model schema: %v", err))
	}
	return sch
}

// ValidateModel checks an untrusted decoded JSON value (as produced by
// encoding/json into an any, with or without UseNumber) against the box
// model document schema. Every failure is reported, not just the first.
func ValidateModel(candidate any) ValidationResult {
	err := modelSchema.Validate(normalize(candidate))
	if err == nil {
		return ValidationResult{Valid: true}
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ValidationResult{Errors: []FieldError{{Message: err.Error()}}}
	}
	var errs []FieldError
	collectLeaves(ve, &errs)
	return ValidationResult{Errors: errs}
}

// collectLeaves flattens the validator's error tree. Inner nodes only group
// their causes ($ref, items, properties), so the leaves carry the failures.
func collectLeaves(ve *jsonschema.ValidationError, errs *[]FieldError) {
	if len(ve.Causes) == 0 {
		*errs = append(*errs, FieldError{
			Path:    pointer(ve.InstanceLocation),
			Keyword: strings.Join(ve.ErrorKind.KeywordPath(), "/"),
			Message: ve.ErrorKind.LocalizedString(printer),
		})
		return
	}
	for _, cause := range ve.Causes {
		collectLeaves(cause, errs)
	}
}

func pointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		t = strings.ReplaceAll(t, "~", "~0")
		b.WriteString(strings.ReplaceAll(t, "/", "~1"))
	}
	return b.String()
}

// normalize rewrites numbers as json.Number so integer checks are exact, and
// turns anything that is not a JSON value into a string so it fails the
// type check at its own path.
func normalize(v any) any {
	switch n := v.(type) {
	case nil, bool, string, json.Number:
		return v
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, item := range n {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, item := range n {
			out[i] = normalize(item)
		}
		return out
	}
	if f, ok := toFloat(v); ok {
		return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return fmt.Sprintf("%T", v)
}

// toFloat accepts the number representations encoding/json can produce.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toInt accepts any number with no fractional part.
func toInt(v any) (int, bool) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	f, ok := toFloat(v)
	if !ok || f != gomath.Trunc(f) || gomath.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}
