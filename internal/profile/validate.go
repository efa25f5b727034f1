package profile

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one user-correctable problem with the input.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when ExtractedData cannot be used for matching.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("branch", func(fl validator.FieldLevel) bool {
			_, ok := vocabulary.CanonicalBranch(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("rank", func(fl validator.FieldLevel) bool {
			return vocabulary.IsRank(fl.Field().String())
		})
		_ = v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
			return vocabulary.IsServiceType(fl.Field().String())
		})
		_ = v.RegisterValidation("degree", func(fl validator.FieldLevel) bool {
			return vocabulary.IsDegreeType(fl.Field().String())
		})
		_ = v.RegisterValidation("proficiency", func(fl validator.FieldLevel) bool {
			return vocabulary.IsProficiency(fl.Field().String())
		})
		v.RegisterStructValidation(manualEntryRules, ExtractedData{})
		validate = v
	})
	return validate
}

// manualEntryRules enforces the form requirements. Resume uploads carry their
// own text and skip them.
func manualEntryRules(sl validator.StructLevel) {
	data := sl.Current().Interface().(ExtractedData)
	if data.HasResume() {
		return
	}
	if strings.TrimSpace(data.MilitaryInfo.Branch) == "" {
		sl.ReportError(data.MilitaryInfo.Branch, "militaryInfo.branch", "Branch", "required", "")
	}
	if len(data.Skills) == 0 {
		sl.ReportError(data.Skills, "skills", "Skills", "min", "1")
	}
}

// Validate checks d against the closed vocabularies and the manual-entry
// requirements. Unknown MOS codes are not errors; Normalize clears them.
func Validate(d ExtractedData) error {
	err := validatorInstance().Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate extracted data: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		ns = ns[idx+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.StructField() == "Branch" {
			return "please select your branch of service"
		}
		return fmt.Sprintf("%s is required", fieldPath(fe))
	case "min":
		if fe.StructField() == "Skills" {
			return "please select at least one skill"
		}
		return fmt.Sprintf("%s must have at least %s entries", fieldPath(fe), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be negative", fieldPath(fe))
	case "branch", "rank", "servicetype", "degree", "proficiency":
		return fmt.Sprintf("%s has unsupported value %q", fieldPath(fe), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", fieldPath(fe))
	}
}
