package backend

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"

	"github.com/goliatone/go-mockgen/pkg/distribution"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// decodeOptions decodes cfg into out (a pointer to an options struct holding
// defaults) and validates the result. Unknown keys are rejected unless the
// struct collects them through a ",remain" field.
func decodeOptions(backend string, cfg Config, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return configError(backend, err)
	}
	if err := decoder.Decode(map[string]any(cfg)); err != nil {
		return configError(backend, err)
	}
	if err := validate.Struct(out); err != nil {
		return configError(backend, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "gtfield":
			msgs = append(msgs, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value()))
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// shapeParams converts the leftover options of a numeric backend into
// distribution parameters.
func shapeParams(backend string, raw map[string]any) (distribution.Params, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make(distribution.Params, len(raw))
	for _, key := range keys {
		value, err := cast.ToFloat64E(raw[key])
		if err != nil {
			return nil, configErrorf(backend, "distribution parameter %q must be numeric, got %T", key, raw[key])
		}
		params[key] = value
	}
	return params, nil
}

// withAliases rewrites alias keys onto their canonical names. Supplying both
// an alias and its canonical key is a configuration error.
func withAliases(backend string, cfg Config, aliases map[string]string) (Config, error) {
	out := cfg.Clone()
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	for _, alias := range names {
		value, ok := out[alias]
		if !ok {
			continue
		}
		canonical := aliases[alias]
		if _, exists := out[canonical]; exists {
			return nil, configErrorf(backend, "options %q and %q are mutually exclusive", alias, canonical)
		}
		delete(out, alias)
		out[canonical] = value
	}
	return out, nil
}
