package onesky

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// Locale is a language known to OneSky.
type Locale struct {
	// Tag is the parsed BCP 47 form of Code.
	Tag language.Tag
	// Code is the locale code as OneSky spells it, e.g. "zh-TW".
	Code        string
	EnglishName string
	LocalName   string
	Region      string
}

// Equal reports whether both locales have the same code.
func (l Locale) Equal(other Locale) bool {
	return l.Code == other.Code
}

func (l Locale) String() string {
	return l.Code
}

// wireLanguage is the language object embedded in many OneSky responses.
type wireLanguage struct {
	Code        *string `json:"code" validate:"required"`
	EnglishName *string `json:"english_name"`
	LocalName   *string `json:"local_name"`
	Locale      *string `json:"locale"`
	Region      *string `json:"region"`
}

func (w wireLanguage) toLocale() (Locale, error) {
	tag, err := ParseLocale(*w.Code)
	if err != nil {
		return Locale{}, err
	}
	return Locale{
		Tag:         tag,
		Code:        *w.Code,
		EnglishName: deref(w.EnglishName),
		LocalName:   deref(w.LocalName),
		Region:      deref(w.Region),
	}, nil
}

func optionalLocale(w *wireLanguage) (*Locale, error) {
	if w == nil || w.Code == nil {
		return nil, nil
	}
	l, err := w.toLocale()
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ParseLocale parses a OneSky locale code. Underscores are accepted as
// subtag separators.
func ParseLocale(code string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", code, err)
	}
	return tag, nil
}

// LocaleCode formats tag the way OneSky expects it in parameters.
func LocaleCode(tag language.Tag) string {
	return tag.String()
}

func toLocale(o core.Object) (Locale, error) {
	w, err := core.DecodeObject[wireLanguage](o)
	if err != nil {
		return Locale{}, err
	}
	return w.toLocale()
}

// Locales lists the locales OneSky supports.
type Locales struct {
	pipeline *pipeline.Pipeline
}

// List returns every supported locale.
func (l *Locales) List(ctx context.Context) ([]Locale, error) {
	req := core.NewRequest(core.OpRead, "/locales")
	return pipeline.List(ctx, l.pipeline, req, toLocale)
}
