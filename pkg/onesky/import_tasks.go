package onesky

import (
	"context"
	"fmt"
	"time"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// ImportTask is the processing of one uploaded file.
type ImportTask struct {
	ID       int64
	FileName string
	// Format and Locale are returned by Retrieve only.
	Format      *FileFormat
	Locale      *Locale
	StringCount *int
	WordCount   *int
	Status      ImportStatus
	CreatedAt   *time.Time
}

// Equal reports whether both tasks have the same ID.
func (t ImportTask) Equal(other ImportTask) bool {
	return t.ID == other.ID
}

func (t ImportTask) String() string {
	return fmt.Sprintf("ImportTask{id=%d, file=%s, status=%s}", t.ID, t.FileName, t.Status)
}

type wireImportTask struct {
	ID   *int64 `json:"id" validate:"required"`
	File *struct {
		Name   *string       `json:"name" validate:"required"`
		Format *string       `json:"format"`
		Locale *wireLanguage `json:"locale"`
	} `json:"file" validate:"required"`
	StringCount        *int    `json:"string_count"`
	WordCount          *int    `json:"word_count"`
	Status             *string `json:"status" validate:"required"`
	CreatedAtTimestamp *int64  `json:"created_at_timestamp"`
}

func toImportTask(o core.Object) (ImportTask, error) {
	w, err := core.DecodeObject[wireImportTask](o)
	if err != nil {
		return ImportTask{}, err
	}
	status, err := ParseImportStatus(*w.Status)
	if err != nil {
		return ImportTask{}, err
	}
	locale, err := optionalLocale(w.File.Locale)
	if err != nil {
		return ImportTask{}, err
	}
	t := ImportTask{
		ID:          *w.ID,
		FileName:    *w.File.Name,
		Locale:      locale,
		StringCount: w.StringCount,
		WordCount:   w.WordCount,
		Status:      status,
		CreatedAt:   unixTime(w.CreatedAtTimestamp),
	}
	if w.File.Format != nil {
		format, err := ParseFileFormat(*w.File.Format)
		if err != nil {
			return ImportTask{}, err
		}
		t.Format = &format
	}
	return t, nil
}

// ImportTasks lists file import tasks.
type ImportTasks struct {
	pipeline *pipeline.Pipeline
}

// List returns one page of the import tasks of a project in the given state.
// An empty status selects every state.
func (t *ImportTasks) List(ctx context.Context, projectID int64, status ImportStatus, page core.PageRequest) (core.Page[ImportTask], error) {
	if status != "" {
		if _, err := ParseImportStatus(string(status)); err != nil {
			return core.Page[ImportTask]{}, core.NewArgumentError("%v", err)
		}
	}
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/import-tasks", projectID)).
		SetRoute("/projects/{id}/import-tasks").
		SetQueryOpt("status", string(status))
	return pipeline.Paged(ctx, t.pipeline, req, page, toImportTask)
}

// Retrieve returns one import task.
func (t *ImportTasks) Retrieve(ctx context.Context, projectID, importID int64) (ImportTask, error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/import-tasks/%d", projectID, importID)).
		SetRoute("/projects/{id}/import-tasks/{id}")
	return pipeline.Object(ctx, t.pipeline, req, toImportTask)
}
