package onesky

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/language"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// ErrExportNotReady is returned when OneSky is still generating an export.
// The same call can be repeated later.
var ErrExportNotReady = errors.New("onesky: export is being generated, try again later")

// DefaultMultilingualFormat is the format OneSky uses for multilingual exports
// when none is requested.
const DefaultMultilingualFormat = "I18NEXT_MULTILINGUAL_JSON"

// TranslationExport selects one translated file.
type TranslationExport struct {
	Locale         language.Tag
	SourceFileName string `validate:"required"`
	// ExportFileName names the returned file. Empty keeps the source name.
	ExportFileName string
}

// MultilingualExport selects one file translated into every language.
type MultilingualExport struct {
	SourceFileName string `validate:"required"`
	ExportFileName string
	// FileFormat defaults to DefaultMultilingualFormat.
	FileFormat string
}

// TranslationStatus is the translation progress of one file in one locale.
type TranslationStatus struct {
	FileName    string
	Locale      Locale
	Progress    *apd.Decimal
	StringCount *int
	WordCount   *int
}

// Equal compares every field.
func (s TranslationStatus) Equal(other TranslationStatus) bool {
	return s.FileName == other.FileName &&
		s.Locale.Equal(other.Locale) &&
		equalDecimal(s.Progress, other.Progress) &&
		equalPtr(s.StringCount, other.StringCount) &&
		equalPtr(s.WordCount, other.WordCount)
}

type wireTranslationStatus struct {
	FileName    *string       `json:"file_name" validate:"required"`
	Locale      *wireLanguage `json:"locale" validate:"required"`
	Progress    *string       `json:"progress"`
	StringCount *int          `json:"string_count"`
	WordCount   *int          `json:"word_count"`
}

func toTranslationStatus(o core.Object) (TranslationStatus, error) {
	w, err := core.DecodeObject[wireTranslationStatus](o)
	if err != nil {
		return TranslationStatus{}, err
	}
	locale, err := w.Locale.toLocale()
	if err != nil {
		return TranslationStatus{}, err
	}
	progress, err := parsePercent(w.Progress)
	if err != nil {
		return TranslationStatus{}, err
	}
	return TranslationStatus{
		FileName:    *w.FileName,
		Locale:      locale,
		Progress:    progress,
		StringCount: w.StringCount,
		WordCount:   w.WordCount,
	}, nil
}

// Translations exports translated files.
type Translations struct {
	pipeline *pipeline.Pipeline
}

// Export returns the content of a translated file. It fails with
// ErrExportNotReady while OneSky is still preparing the file.
func (t *Translations) Export(ctx context.Context, projectID int64, export TranslationExport) ([]byte, error) {
	if err := validateArgument("translation export", export); err != nil {
		return nil, err
	}
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/translations", projectID)).
		SetRoute("/projects/{id}/translations").
		SetContentType(core.ContentTypeText).
		SetQuery("locale", LocaleCode(export.Locale)).
		SetQuery("source_file_name", export.SourceFileName).
		SetQueryOpt("export_file_name", export.ExportFileName)
	return t.raw(ctx, req)
}

// ExportMultilingual returns one file holding every language of a source file.
func (t *Translations) ExportMultilingual(ctx context.Context, projectID int64, export MultilingualExport) ([]byte, error) {
	if err := validateArgument("multilingual export", export); err != nil {
		return nil, err
	}
	format := export.FileFormat
	if format == "" {
		format = DefaultMultilingualFormat
	}
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/translations/multilingual", projectID)).
		SetRoute("/projects/{id}/translations/multilingual").
		SetContentType(core.ContentTypeText).
		SetQuery("source_file_name", export.SourceFileName).
		SetQuery("file_format", format).
		SetQueryOpt("export_file_name", export.ExportFileName)
	return t.raw(ctx, req)
}

func (t *Translations) raw(ctx context.Context, req *core.Request) ([]byte, error) {
	body, err := t.pipeline.Raw(ctx, req)
	if status, ok := core.StatusOf(err); ok && status == http.StatusAccepted {
		return nil, ErrExportNotReady
	}
	return body, err
}

// Status returns the translation progress of a file in one locale.
func (t *Translations) Status(ctx context.Context, projectID int64, fileName string, locale language.Tag) (TranslationStatus, error) {
	if fileName == "" {
		return TranslationStatus{}, core.NewArgumentError("file name must not be empty")
	}
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/translations/status", projectID)).
		SetRoute("/projects/{id}/translations/status").
		SetQuery("file_name", fileName).
		SetQuery("locale", LocaleCode(locale))
	return pipeline.Object(ctx, t.pipeline, req, toTranslationStatus)
}
