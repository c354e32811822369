package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/student-registry-api/internal/dto"
)

const maxSafeInteger = 1<<53 - 1

var leadingInteger = regexp.MustCompile(`^[+-]?[0-9]+`)

type fieldKind int

const (
	kindInteger fieldKind = iota
	kindNumber
	kindString
)

// fieldRule declares how one field is coerced and which validator tags it must satisfy.
// Tags are evaluated in order and the first failure wins.
type fieldRule struct {
	name     string
	kind     fieldKind
	required bool
	tags     string
}

var studentRules = []fieldRule{
	{name: "id", kind: kindInteger, required: true, tags: "gt=0,max=2147483647"},
	{name: "code", kind: kindString, required: true, tags: "required,len=11,number"},
	{name: "name", kind: kindString, tags: "required,max=254"},
	{name: "email", kind: kindString, tags: "required,email"},
	{name: "schoolId", kind: kindInteger, required: true, tags: "gt=0,max=2147483647"},
	{name: "classId", kind: kindInteger, required: true, tags: "gt=0,max=2147483647"},
	{name: "score", kind: kindNumber},
}

var filterRules = []fieldRule{
	{name: "classId", kind: kindInteger},
	{name: "schoolId", kind: kindInteger},
	{name: "score", kind: kindNumber},
}

// Rules evaluates the student payload and list filter rule sets.
type Rules struct {
	validate *validator.Validate
}

// New constructs the rule sets on top of a shared validator instance.
func New(validate *validator.Validate) *Rules {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return &Rules{validate: validate}
}

// Student validates a JSON student body and returns the coerced payload.
func (r *Rules) Student(body []byte) (dto.StudentPayload, error) {
	fields, err := decodeObject(body)
	if err != nil {
		return dto.StudentPayload{}, err
	}

	values, err := r.evaluate(studentRules, fields)
	if err != nil {
		return dto.StudentPayload{}, err
	}

	return dto.StudentPayload{
		ID:       values["id"].(int),
		Code:     values["code"].(string),
		Name:     optionalString(values["name"]),
		Email:    optionalString(values["email"]),
		SchoolID: values["schoolId"].(int),
		ClassID:  values["classId"].(int),
		Score:    optionalNumber(values["score"]),
	}, nil
}

// Filters validates list query parameters.
func (r *Rules) Filters(query map[string]string) (dto.StudentListQuery, error) {
	fields := make(map[string]interface{}, len(query))
	for key, value := range query {
		fields[key] = value
	}

	values, err := r.evaluate(filterRules, fields)
	if err != nil {
		return dto.StudentListQuery{}, err
	}

	return dto.StudentListQuery{
		ClassID:  optionalInteger(values["classId"]),
		SchoolID: optionalInteger(values["schoolId"]),
		Score:    optionalNumber(values["score"]),
	}, nil
}

// Integer parses a single query parameter that must hold a whole number. The value is accepted
// only when reading it as a number and reading its leading digits yield the same result, so
// exponents, hex and trailing text are rejected.
func Integer(field, raw string) (int, error) {
	invalid := newError(field, "%q must be an integer", field)

	text := strings.TrimSpace(raw)
	prefix := leadingInteger.FindString(text)
	if prefix == "" {
		return 0, invalid
	}

	number, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, invalid
	}

	whole, err := strconv.ParseFloat(prefix, 64)
	if err != nil || whole != number || math.Abs(number) > maxSafeInteger {
		return 0, invalid
	}

	return int(number), nil
}

func (r *Rules) evaluate(rules []fieldRule, fields map[string]interface{}) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(rules))
	declared := make(map[string]struct{}, len(rules))

	for _, rule := range rules {
		declared[rule.name] = struct{}{}

		raw, present := fields[rule.name]
		if !present {
			if rule.required {
				return nil, newError(rule.name, "%q is required", rule.name)
			}
			continue
		}

		value, err := coerce(rule.name, rule.kind, raw)
		if err != nil {
			return nil, err
		}

		if rule.tags != "" {
			if err := r.validate.Var(value, rule.tags); err != nil {
				return nil, translate(rule.name, err)
			}
		}

		values[rule.name] = value
	}

	unknown := make([]string, 0)
	for key := range fields {
		if _, ok := declared[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, newError(unknown[0], "%q is not allowed", unknown[0])
	}

	return values, nil
}

func decodeObject(body []byte) (map[string]interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return nil, newError("value", "malformed JSON payload")
	}
	if err := decoder.Decode(new(interface{})); !errors.Is(err, io.EOF) {
		return nil, newError("value", "malformed JSON payload")
	}

	fields, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, newError("value", `"value" must be of type object`)
	}

	return fields, nil
}

func coerce(field string, kind fieldKind, raw interface{}) (interface{}, error) {
	if kind == kindString {
		value, ok := raw.(string)
		if !ok {
			return nil, newError(field, "%q must be a string", field)
		}
		return value, nil
	}

	var text string
	switch value := raw.(type) {
	case json.Number:
		text = value.String()
	case string:
		text = strings.TrimSpace(value)
	default:
		return nil, newError(field, "%q must be a number", field)
	}

	number, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, newError(field, "%q must be a number", field)
	}

	if math.Abs(number) > maxSafeInteger {
		return nil, newError(field, "%q must be a safe number", field)
	}

	if kind == kindInteger {
		if number != math.Trunc(number) {
			return nil, newError(field, "%q must be an integer", field)
		}
		return int(number), nil
	}

	return number, nil
}

func optionalString(value interface{}) *string {
	if s, ok := value.(string); ok {
		return &s
	}
	return nil
}

func optionalInteger(value interface{}) *int {
	if i, ok := value.(int); ok {
		return &i
	}
	return nil
}

func optionalNumber(value interface{}) *float64 {
	if f, ok := value.(float64); ok {
		return &f
	}
	return nil
}

func newError(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Message: fmt.Sprintf(format, args...)}
}
