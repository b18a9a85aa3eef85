package calculator

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	slugRE  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	identRE = regexp.MustCompile(`^[\p{L}_][\p{L}\p{Nd}_]*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names, as authors write them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	pattern := func(re *regexp.Regexp) validator.Func {
		return func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}
	}
	if err := v.RegisterValidation("slug", pattern(slugRE)); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("ident", pattern(identRE)); err != nil {
		panic(err)
	}
	return v
}

var messages = map[string]string{
	"required": "is required",
	"slug":     "must be lowercase words separated by hyphens",
	"ident":    "must be an identifier",
	"oneof":    "must be one of: ",
	"unique":   "must have unique input names",
}

// ValidationError describes every invalid field of a calculator definition.
type ValidationError struct {
	// Slug is the calculator's slug, possibly empty.
	Slug string
	// Fields maps JSON field paths, e.g. "inputs[1].name", to problems.
	Fields map[string]string
}

func (err *ValidationError) Error() string {
	keys := make([]string, 0, len(err.Fields))
	for k := range err.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("invalid calculator")
	if err.Slug != "" {
		b.WriteString(" " + err.Slug)
	}
	for i, k := range keys {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(k + " " + err.Fields[k])
	}
	return b.String()
}

// Validate checks a calculator definition. The error, if any, is a
// *ValidationError.
func Validate(c *Calculator) error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	r := ValidationError{Slug: c.Slug, Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		// Namespaces start with the struct type name.
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "fails " + fe.Tag()
		}
		if fe.Param() != "" && fe.Tag() == "oneof" {
			msg += fe.Param()
		}
		r.Fields[field] = msg
	}
	return &r
}
