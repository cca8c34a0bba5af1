package layerconf

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"

	"github.com/nauticalab/layerconf/pkg/settings"
)

// Result is the outcome of a validation: either a value or issues.
type Result[T any] struct {
	Value  T
	Issues []Issue
}

// ValidatorInfo describes a validator for logging.
type ValidatorInfo struct {
	Vendor  string
	Version int
}

// Validator checks the expanded configuration and converts it into T.
//
// Schema problems are reported as Result.Issues. The error return is for
// failures of the validator itself (a remote schema service being down, a
// cancelled context).
type Validator[T any] interface {
	Validate(ctx context.Context, input map[string]any) (Result[T], error)
	Info() ValidatorInfo
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc[T any] func(ctx context.Context, input map[string]any) (Result[T], error)

// Validate calls f.
func (f ValidatorFunc[T]) Validate(ctx context.Context, input map[string]any) (Result[T], error) {
	return f(ctx, input)
}

// Info implements Validator.
func (f ValidatorFunc[T]) Info() ValidatorInfo {
	return ValidatorInfo{Vendor: "func", Version: 1}
}

// Passthrough returns a validator that accepts any configuration as-is.
func Passthrough() Validator[map[string]any] {
	return ValidatorFunc[map[string]any](func(_ context.Context, input map[string]any) (Result[map[string]any], error) {
		return Result[map[string]any]{Value: input}, nil
	})
}

// StructValidator decodes the configuration into T through its yaml struct
// tags and checks the result with go-playground/validator tags. T may be a
// struct or a pointer to one.
type StructValidator[T any] struct {
	validate     *validator.Validate
	knownFields  bool
	registerErrs []error
}

// StructOption configures a StructValidator.
type StructOption func(*structOptions)

type structOptions struct {
	knownFields bool
	validations map[string]validator.Func
}

// WithKnownFields reports configuration keys that have no matching struct
// field as issues. The top-level keys the loader writes itself ("config",
// "profiles" with the default properties) are ignored unless T declares them.
func WithKnownFields() StructOption {
	return func(o *structOptions) {
		o.knownFields = true
	}
}

// WithValidation registers a custom validation tag.
func WithValidation(tag string, fn validator.Func) StructOption {
	return func(o *structOptions) {
		o.validations[tag] = fn
	}
}

// NewStructValidator creates a StructValidator for T.
func NewStructValidator[T any](opts ...StructOption) *StructValidator[T] {
	o := structOptions{validations: make(map[string]validator.Func)}
	for _, opt := range opts {
		opt(&o)
	}

	// Enable "required on structs" semantics and report yaml field names.
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(yamlFieldName)

	sv := &StructValidator[T]{validate: v, knownFields: o.knownFields}
	for tag, fn := range o.validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			sv.registerErrs = append(sv.registerErrs, fmt.Errorf("register validator %s: %w", tag, err))
		}
	}
	return sv
}

// Info implements Validator.
func (v *StructValidator[T]) Info() ValidatorInfo {
	return ValidatorInfo{Vendor: "go-playground/validator", Version: 10}
}

// Validate implements Validator.
func (v *StructValidator[T]) Validate(ctx context.Context, input map[string]any) (Result[T], error) {
	var result Result[T]

	if len(v.registerErrs) > 0 {
		return result, v.registerErrs[0]
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	if v.knownFields {
		input = withoutReservedRoots(input, reservedRoots(ctx), structType[T]())
	}

	value, issues, err := v.decode(input)
	if err != nil {
		return result, err
	}
	if len(issues) > 0 {
		result.Issues = issues
		return result, nil
	}

	target := reflect.ValueOf(&value).Elem()
	for target.Kind() == reflect.Pointer {
		if target.IsNil() {
			target.Set(reflect.New(target.Type().Elem()))
		}
		target = target.Elem()
	}

	if target.Kind() == reflect.Struct {
		if err := v.validate.StructCtx(ctx, target.Addr().Interface()); err != nil {
			fieldErrors, ok := err.(validator.ValidationErrors)
			if !ok {
				return result, fmt.Errorf("failed to validate configuration: %w", err)
			}
			for _, fieldError := range fieldErrors {
				result.Issues = append(result.Issues, Issue{
					Message: formatFieldError(fieldError),
					Path:    fieldPath(fieldError),
				})
			}
			return result, nil
		}
	}

	result.Value = value
	return result, nil
}

// decode populates T from input through its yaml tags. Scalars are weakly
// typed so string values from the environment fill numeric and boolean
// fields. Decode failures become issues rather than errors.
func (v *StructValidator[T]) decode(input map[string]any) (T, []Issue, error) {
	var value T

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &value,
		TagName:          "yaml",
		Squash:           true,
		WeaklyTypedInput: true,
		ErrorUnused:      v.knownFields,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return value, nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		var decodeErr *mapstructure.Error
		if !errors.As(err, &decodeErr) {
			return value, decodeIssues(err.Error()), nil
		}
		var issues []Issue
		for _, message := range decodeErr.Errors {
			issues = append(issues, decodeIssues(message)...)
		}
		return value, issues, nil
	}

	return value, nil, nil
}

var (
	quotedName  = regexp.MustCompile(`'([^']*)'`)
	invalidKeys = regexp.MustCompile(`^'([^']*)' has invalid keys: (.+)$`)
)

// decodeIssues turns one decoder message into issues. Unknown keys are
// reported one per key with their full dotted path.
func decodeIssues(message string) []Issue {
	if match := invalidKeys.FindStringSubmatch(message); match != nil {
		var issues []Issue
		for _, key := range strings.Split(match[2], ", ") {
			path := key
			if match[1] != "" {
				path = match[1] + "." + key
			}
			issues = append(issues, Issue{
				Message: fmt.Sprintf("'%s' is not a known configuration key", path),
				Path:    path,
			})
		}
		return issues
	}

	issue := Issue{Message: message}
	if match := quotedName.FindStringSubmatch(message); match != nil {
		issue.Path = match[1]
	}
	return []Issue{issue}
}

type reservedRootsKey struct{}

// withReservedRoots records the top-level keys the loader itself writes
// into the merged configuration.
func withReservedRoots(ctx context.Context, roots []string) context.Context {
	return context.WithValue(ctx, reservedRootsKey{}, roots)
}

func reservedRoots(ctx context.Context) []string {
	if roots, ok := ctx.Value(reservedRootsKey{}).([]string); ok {
		return roots
	}
	return settings.DefaultProperties().Roots()
}

// withoutReservedRoots returns input minus the reserved top-level keys that
// target does not declare as fields.
func withoutReservedRoots(input map[string]any, roots []string, target reflect.Type) map[string]any {
	if target.Kind() != reflect.Struct {
		return input
	}

	var drop []string
	for _, root := range roots {
		if _, ok := input[root]; ok && !hasField(target, root) {
			drop = append(drop, root)
		}
	}
	if len(drop) == 0 {
		return input
	}

	out := maps.Clone(input)
	for _, root := range drop {
		delete(out, root)
	}
	return out
}

func hasField(target reflect.Type, name string) bool {
	for i := range target.NumField() {
		field := target.Field(i)
		if !field.IsExported() {
			continue
		}
		if strings.EqualFold(yamlFieldName(field), name) {
			return true
		}
	}
	return false
}

func structType[T any]() reflect.Type {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// yamlFieldName reports struct fields by their yaml name in validation
// errors, which is the key users write in their files.
func yamlFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return field.Name
	default:
		return name
	}
}

// fieldPath strips the root type name from the validator namespace:
// "Config.database.port" becomes "database.port".
func fieldPath(fieldError validator.FieldError) string {
	namespace := fieldError.Namespace()
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

// formatFieldError creates user-friendly error messages for field validation failures
func formatFieldError(fieldError validator.FieldError) string {
	fieldName := fieldError.Field()
	tag := fieldError.Tag()
	param := fieldError.Param()
	value := fieldError.Value()

	switch tag {
	case "required":
		return fmt.Sprintf("'%s' is required", fieldName)
	case "email":
		return fmt.Sprintf("'%s' must be a valid email address, got '%v'", fieldName, value)
	case "min":
		return fmt.Sprintf("'%s' must be at least %s characters/value, got '%v'", fieldName, param, value)
	case "max":
		return fmt.Sprintf("'%s' must be at most %s characters/value, got '%v'", fieldName, param, value)
	case "gte":
		return fmt.Sprintf("'%s' must be greater than or equal to %s, got '%v'", fieldName, param, value)
	case "gt":
		return fmt.Sprintf("'%s' must be greater than %s, got '%v'", fieldName, param, value)
	case "lte":
		return fmt.Sprintf("'%s' must be less than or equal to %s, got '%v'", fieldName, param, value)
	case "lt":
		return fmt.Sprintf("'%s' must be less than %s, got '%v'", fieldName, param, value)
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got '%v'", fieldName, param, value)
	case "hostname":
		return fmt.Sprintf("'%s' must be a valid hostname format, got '%v'", fieldName, value)
	case "hostname_port":
		return fmt.Sprintf("'%s' must be a host:port address, got '%v'", fieldName, value)
	case "url":
		return fmt.Sprintf("'%s' must be a valid URL, got '%v'", fieldName, value)
	case "filepath":
		return fmt.Sprintf("'%s' must be a valid file path, got '%v'", fieldName, value)
	default:
		return fmt.Sprintf("'%s' failed validation '%s', got '%v'", fieldName, tag, value)
	}
}
