package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"marianconnect/internal/models"
)

// vocabularies maps the names used in `vocab=` tags to the allowed values.
var vocabularies = map[string][]string{
	"news_category":    models.NewsCategories,
	"news_status":      models.NewsStatuses,
	"event_category":   models.EventCategories,
	"event_status":     models.EventStatuses,
	"gallery_category": models.GalleryCategories,
	"page_status":      {string(models.PageStatusDraft), string(models.PageStatusPublished)},
	"body_format":      {string(models.BodyFormatHTML), string(models.BodyFormatMarkdown)},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their label tag so messages read naturally.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	// vocab=<name> checks the value against a known vocabulary.
	v.RegisterValidation("vocab", func(fl validator.FieldLevel) bool {
		allowed, ok := vocabularies[fl.Param()]
		return ok && models.ValidChoice(allowed, fl.Field().String())
	})

	// runes=<n> caps length in characters rather than bytes.
	v.RegisterValidation("runes", func(fl validator.FieldLevel) bool {
		var n int
		fmt.Sscan(fl.Param(), &n)
		return utf8.RuneCountInString(fl.Field().String()) <= n
	})
	return v
}

// Form input structs. Fields hold the raw submitted strings.

type newsForm struct {
	Title    string `label:"Title" validate:"required,runes=255"`
	Slug     string `label:"Slug" validate:"omitempty,runes=80"`
	Excerpt  string `label:"Excerpt" validate:"runes=500"`
	Content  string `label:"Content" validate:"required,runes=100000"`
	Category string `label:"Category" validate:"vocab=news_category"`
	Status   string `label:"Status" validate:"vocab=news_status"`
}

type eventForm struct {
	Title       string `label:"Title" validate:"required,runes=255"`
	Slug        string `label:"Slug" validate:"omitempty,runes=80"`
	Description string `label:"Description" validate:"required,runes=20000"`
	Category    string `label:"Category" validate:"vocab=event_category"`
	Location    string `label:"Location" validate:"runes=255"`
	StartDate   string `label:"Start date" validate:"required,datetime=2006-01-02"`
	EndDate     string `label:"End date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   string `label:"Start time" validate:"omitempty,datetime=15:04"`
	EndTime     string `label:"End time" validate:"omitempty,datetime=15:04"`
	Status      string `label:"Status" validate:"vocab=event_status"`
}

type pageForm struct {
	Title           string `label:"Title" validate:"required,runes=255"`
	Slug            string `label:"Slug" validate:"omitempty,runes=80"`
	Content         string `label:"Content" validate:"required,runes=200000"`
	BodyFormat      string `label:"Format" validate:"vocab=body_format"`
	MetaDescription string `label:"Meta description" validate:"runes=300"`
	Status          string `label:"Status" validate:"vocab=page_status"`
}

type galleryForm struct {
	Title        string `label:"Title" validate:"runes=255"`
	Description  string `label:"Description" validate:"runes=1000"`
	Category     string `label:"Category" validate:"vocab=gallery_category"`
	EventID      string `label:"Event" validate:"omitempty,uuid"`
	DisplayOrder int    `label:"Display order" validate:"min=0"`
}

type contactForm struct {
	Name    string `label:"Name" validate:"required,runes=100"`
	Email   string `label:"Email" validate:"required,email,runes=255"`
	Phone   string `label:"Phone" validate:"omitempty,runes=30"`
	Subject string `label:"Subject" validate:"required,runes=200"`
	Message string `label:"Message" validate:"required,runes=5000"`
}

// validateForm checks a form struct and returns the first problem as a
// user-facing message, or "" when the form is valid.
func validateForm(form any) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "The form could not be validated."
	}
	return fieldMessage(verrs[0])
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required."
	case "runes":
		return fmt.Sprintf("%s is too long (max %s characters).", field, fe.Param())
	case "email":
		return field + " must be a valid email address."
	case "datetime":
		if strings.Contains(fe.Param(), ":") {
			return field + " must be a time like 14:30."
		}
		return field + " must be a date like 2026-05-31."
	case "vocab", "uuid":
		return field + " has an invalid value."
	case "min":
		return fmt.Sprintf("%s must be at least %s.", field, fe.Param())
	}
	return field + " is invalid."
}
