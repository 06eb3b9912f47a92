package validator

import (
	"errors"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales/vi"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/stemsi/subject-catalog/internal/model"
)

// minTextLength is the exclusive lower bound on trimmed name/teacher length.
const minTextLength = 3

var (
	once     sync.Once
	validate *govalidator.Validate
	trans    ut.Translator
)

// messages maps each custom tag to its Vietnamese failure text.
// {0} is replaced with the JSON field name.
var messages = map[string]string{
	"subject_text":     "{0} phải là chuỗi và > 3 ký tự",
	"subject_credit":   "{0} phải là số > 0",
	"subject_category": "{0} không hợp lệ",
}

// Setup builds the validator and its Vietnamese translator.
// It is safe to call more than once; Subject calls it lazily.
func Setup() {
	once.Do(func() {
		v := govalidator.New(govalidator.WithRequiredStructEnabled())

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("subject_text", validText)
		_ = v.RegisterValidation("subject_credit", validCredit)
		_ = v.RegisterValidation("subject_category", validCategory)

		viLocale := vi.New()
		uni := ut.New(viLocale, viLocale)
		trans, _ = uni.GetTranslator("vi")

		for tag, text := range messages {
			registerMessage(v, tag, text)
		}

		validate = v
	})
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error {
			return t.Add(tag, text, true)
		},
		func(t ut.Translator, fe govalidator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Field() + " không hợp lệ"
			}
			return msg
		},
	)
}

func validText(fl govalidator.FieldLevel) bool {
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) > minTextLength
}

func validCredit(fl govalidator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

func validCategory(fl govalidator.FieldLevel) bool {
	return model.IsCategory(fl.Field().String())
}

// Subject checks a candidate subject and returns one reason per failed field,
// in field order. An empty result means the input is valid.
func Subject(in model.SubjectInput) []string {
	Setup()
	return TranslateErrors(validate.Struct(in))
}

// TranslateErrors turns a validation error into an ordered list of
// human-readable reasons. Nil yields nil.
func TranslateErrors(err error) []string {
	if err == nil {
		return nil
	}

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		reasons := make([]string, 0, len(ve))
		for _, fe := range ve {
			reasons = append(reasons, fe.Translate(trans))
		}
		return reasons
	}

	// Not a field error (e.g., a nil or non-struct value).
	return []string{err.Error()}
}

// Bind decodes the JSON request body into dst without validating it.
// An empty body leaves dst untouched.
func Bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
