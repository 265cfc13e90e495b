package onesky

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// File is a source file uploaded to a project. Files are identified by name.
type File struct {
	Name        string
	StringCount *int
	LastImport  *FileImport
	UploadedAt  *time.Time
}

// Equal reports whether both files have the same name.
func (f File) Equal(other File) bool {
	return f.Name == other.Name
}

// FileImport is the import task started for an uploaded file.
type FileImport struct {
	ID        int64
	Status    ImportStatus
	CreatedAt *time.Time
}

// Equal reports whether both imports have the same ID.
func (i FileImport) Equal(other FileImport) bool {
	return i.ID == other.ID
}

// UploadedFile is the server's answer to an upload.
type UploadedFile struct {
	Name   string
	Format FileFormat
	Locale *Locale
	Import FileImport
}

// Equal reports whether both uploads started the same import.
func (u UploadedFile) Equal(other UploadedFile) bool {
	return u.Import.Equal(other.Import)
}

type wireFileImport struct {
	ID                 *int64  `json:"id" validate:"required"`
	Status             *string `json:"status"`
	CreatedAtTimestamp *int64  `json:"created_at_timestamp"`
}

func (w wireFileImport) toFileImport() (FileImport, error) {
	fi := FileImport{ID: *w.ID, CreatedAt: unixTime(w.CreatedAtTimestamp)}
	if w.Status != nil {
		status, err := ParseImportStatus(*w.Status)
		if err != nil {
			return FileImport{}, err
		}
		fi.Status = status
	}
	return fi, nil
}

type wireFile struct {
	FileName            *string         `json:"file_name" validate:"required"`
	StringCount         *int            `json:"string_count"`
	LastImport          *wireFileImport `json:"last_import"`
	UploadedAtTimestamp *int64          `json:"uploaded_at_timestamp"`
}

func toFile(o core.Object) (File, error) {
	w, err := core.DecodeObject[wireFile](o)
	if err != nil {
		return File{}, err
	}
	f := File{
		Name:        *w.FileName,
		StringCount: w.StringCount,
		UploadedAt:  unixTime(w.UploadedAtTimestamp),
	}
	if w.LastImport != nil {
		fi, err := w.LastImport.toFileImport()
		if err != nil {
			return File{}, err
		}
		f.LastImport = &fi
	}
	return f, nil
}

type wireUploadedFile struct {
	Name     *string         `json:"name" validate:"required"`
	Format   *string         `json:"format"`
	Language *wireLanguage   `json:"language"`
	Import   *wireFileImport `json:"import" validate:"required"`
}

func toUploadedFile(o core.Object) (UploadedFile, error) {
	w, err := core.DecodeObject[wireUploadedFile](o)
	if err != nil {
		return UploadedFile{}, err
	}
	fi, err := w.Import.toFileImport()
	if err != nil {
		return UploadedFile{}, err
	}
	locale, err := optionalLocale(w.Language)
	if err != nil {
		return UploadedFile{}, err
	}
	return UploadedFile{
		Name:   *w.Name,
		Format: FileFormat(deref(w.Format)),
		Locale: locale,
		Import: fi,
	}, nil
}

// FileUpload describes a file to upload.
type FileUpload struct {
	FileName string     `validate:"required"`
	Format   FileFormat `validate:"required"`
	Content  io.Reader  `validate:"required"`
	// Locale defaults to the project's base language.
	Locale *language.Tag
	// KeepAllStrings deprecates strings missing from this upload when false.
	KeepAllStrings *bool
	// AllowSameAsOriginal accepts translations equal to the source text.
	AllowSameAsOriginal *bool
}

// Files manages the source files of a project.
type Files struct {
	pipeline *pipeline.Pipeline
}

// List returns one page of the files of a project.
func (f *Files) List(ctx context.Context, projectID int64, page core.PageRequest) (core.Page[File], error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/files", projectID)).
		SetRoute("/projects/{id}/files")
	return pipeline.Paged(ctx, f.pipeline, req, page, toFile)
}

// Upload sends a file as multipart/form-data and returns the import it started.
func (f *Files) Upload(ctx context.Context, projectID int64, upload FileUpload) (UploadedFile, error) {
	if err := validateArgument("file upload", upload); err != nil {
		return UploadedFile{}, err
	}
	if !upload.Format.Valid() {
		return UploadedFile{}, core.NewArgumentError("unknown file format %q", upload.Format)
	}

	req := core.NewRequest(core.OpCreate, fmt.Sprintf("/projects/%d/files", projectID)).
		SetRoute("/projects/{id}/files").
		SetFormField("file_format", string(upload.Format)).
		AddFile("file", upload.FileName, upload.Content)
	if upload.Locale != nil {
		req.SetFormField("locale", LocaleCode(*upload.Locale))
	}
	if upload.KeepAllStrings != nil {
		req.SetFormField("is_keeping_all_strings", strconv.FormatBool(*upload.KeepAllStrings))
	}
	if upload.AllowSameAsOriginal != nil {
		req.SetFormField("is_allow_translation_same_as_original", strconv.FormatBool(*upload.AllowSameAsOriginal))
	}
	return pipeline.Object(ctx, f.pipeline, req, toUploadedFile)
}

// Delete removes a file from a project.
func (f *Files) Delete(ctx context.Context, projectID int64, fileName string) error {
	if fileName == "" {
		return core.NewArgumentError("file name must not be empty")
	}
	req := core.NewRequest(core.OpDelete, fmt.Sprintf("/projects/%d/files", projectID)).
		SetRoute("/projects/{id}/files").
		SetQuery("file_name", fileName)
	return f.pipeline.Exec(ctx, req)
}
