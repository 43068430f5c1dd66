package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// The importer owns its own validator instance so bundle validation works the
// same whether a bundle arrives over HTTP or from a file on disk.
var (
	bundleValidate *govalidator.Validate
	bundleTrans    ut.Translator
)

// slugPattern is re-checked here even though callers are expected to
// pre-validate slugs: a bad slug would silently produce an unreachable quiz.
var slugPattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

func init() {
	bundleValidate = govalidator.New()

	// Use JSON tag names so violation paths match the input document.
	bundleValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	bundleTrans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(bundleValidate, bundleTrans)
}

// Violation is one structural problem in a candidate bundle, addressed by the
// JSON path of the offending field.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// DecodeBundle parses and validates a raw bundle document. It returns either
// a typed bundle or the list of violations; it never touches storage.
func DecodeBundle(raw []byte) (*QuizBundle, []Violation) {
	var b QuizBundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, []Violation{{Field: "$", Reason: "invalid JSON: " + err.Error()}}
	}
	if violations := ValidateBundle(&b); len(violations) > 0 {
		return nil, violations
	}
	return &b, nil
}

// ValidateBundle runs the structural schema pass and then the cross-field
// passes the schema cannot express: the slug character class and option-key
// uniqueness within each question.
func ValidateBundle(b *QuizBundle) []Violation {
	var violations []Violation

	if err := bundleValidate.Struct(b); err != nil {
		var ve govalidator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				violations = append(violations, Violation{
					Field:  strings.TrimPrefix(fe.Namespace(), "QuizBundle."),
					Reason: fe.Translate(bundleTrans),
				})
			}
		} else {
			violations = append(violations, Violation{Field: "$", Reason: err.Error()})
		}
	}

	if b.Test.Slug != "" && !slugPattern.MatchString(b.Test.Slug) {
		violations = append(violations, Violation{
			Field:  "test.slug",
			Reason: "slug may only contain lowercase letters, digits, hyphen and underscore",
		})
	}

	for qi, q := range b.Questions {
		seen := make(map[string]struct{}, len(q.Options))
		for oi, o := range q.Options {
			if o.Key == "" {
				continue // already reported by the schema pass
			}
			if _, dup := seen[o.Key]; dup {
				violations = append(violations, Violation{
					Field:  fmt.Sprintf("questions[%d].options[%d].key", qi, oi),
					Reason: fmt.Sprintf("duplicate option key %q within one question", o.Key),
				})
				continue
			}
			seen[o.Key] = struct{}{}
		}
	}

	return violations
}
