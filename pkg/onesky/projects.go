package onesky

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/sync/errgroup"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// Project is a translation project inside a project group.
type Project struct {
	ID          int64
	Name        string
	Description *string
	Type        *ProjectType
	StringCount *int
	WordCount   *int
	// BaseLanguage and Languages are filled by Retrieve only.
	BaseLanguage *ProjectLanguage
	Languages    []ProjectLanguage
}

// Equal reports whether both projects have the same ID.
func (p Project) Equal(other Project) bool {
	return p.ID == other.ID
}

func (p Project) String() string {
	return fmt.Sprintf("Project{id=%d, name=%s}", p.ID, p.Name)
}

// ProjectLanguage is a language enabled in a project with its progress.
type ProjectLanguage struct {
	Locale
	IsBaseLanguage   bool
	IsReadyToPublish bool
	// TranslationProgress is a percentage in [0, 100].
	TranslationProgress *apd.Decimal
	UploadedAt          *time.Time
}

// Equal compares every field.
func (l ProjectLanguage) Equal(other ProjectLanguage) bool {
	return l.Locale.Equal(other.Locale) &&
		l.IsBaseLanguage == other.IsBaseLanguage &&
		l.IsReadyToPublish == other.IsReadyToPublish &&
		equalDecimal(l.TranslationProgress, other.TranslationProgress) &&
		equalTime(l.UploadedAt, other.UploadedAt)
}

type wireProject struct {
	ID          *int64           `json:"id" validate:"required"`
	Name        *string          `json:"name" validate:"required"`
	Description *string          `json:"description"`
	ProjectType *wireProjectType `json:"project_type"`
	StringCount *int             `json:"string_count"`
	WordCount   *int             `json:"word_count"`
}

type wireProjectLanguage struct {
	wireLanguage
	IsBaseLanguage      *bool   `json:"is_base_language"`
	IsReadyToPublish    *bool   `json:"is_ready_to_publish"`
	TranslationProgress *string `json:"translation_progress"`
	UploadedAtTimestamp *int64  `json:"uploaded_at_timestamp"`
}

func toProjectLanguage(o core.Object) (ProjectLanguage, error) {
	w, err := core.DecodeObject[wireProjectLanguage](o)
	if err != nil {
		return ProjectLanguage{}, err
	}
	l, err := w.toLocale()
	if err != nil {
		return ProjectLanguage{}, err
	}
	progress, err := parsePercent(w.TranslationProgress)
	if err != nil {
		return ProjectLanguage{}, err
	}
	return ProjectLanguage{
		Locale:              l,
		IsBaseLanguage:      deref(w.IsBaseLanguage),
		IsReadyToPublish:    deref(w.IsReadyToPublish),
		TranslationProgress: progress,
		UploadedAt:          unixTime(w.UploadedAtTimestamp),
	}, nil
}

func toProject(o core.Object) (Project, error) {
	w, err := core.DecodeObject[wireProject](o)
	if err != nil {
		return Project{}, err
	}
	p := Project{
		ID:          *w.ID,
		Name:        *w.Name,
		Description: w.Description,
		StringCount: w.StringCount,
		WordCount:   w.WordCount,
	}
	if w.ProjectType != nil && w.ProjectType.Code != nil {
		t := w.ProjectType.toProjectType()
		p.Type = &t
	}
	return p, nil
}

// ProjectCreate holds the fields of a new project.
type ProjectCreate struct {
	// ProjectType is a code from ProjectTypes.List.
	ProjectType string `validate:"required"`
	Name        string
	Description string
}

// ProjectUpdate holds the fields to change. Nil fields are left as they are.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// Projects manages projects.
type Projects struct {
	pipeline *pipeline.Pipeline
}

// List returns the projects of a project group.
func (p *Projects) List(ctx context.Context, groupID int64) ([]Project, error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/project-groups/%d/projects", groupID)).
		SetRoute("/project-groups/{id}/projects")
	return pipeline.List(ctx, p.pipeline, req, toProject)
}

// Create creates a project in a project group.
func (p *Projects) Create(ctx context.Context, groupID int64, project ProjectCreate) (Project, error) {
	if err := validateArgument("project", project); err != nil {
		return Project{}, err
	}
	req := core.NewRequest(core.OpCreate, fmt.Sprintf("/project-groups/%d/projects", groupID)).
		SetRoute("/project-groups/{id}/projects").
		SetQuery("project_type", project.ProjectType).
		SetQueryOpt("name", project.Name).
		SetQueryOpt("description", project.Description)
	return pipeline.Object(ctx, p.pipeline, req, toProject)
}

// Retrieve returns a project together with its languages. The project and
// its languages are fetched concurrently; the first failure cancels the other call.
func (p *Projects) Retrieve(ctx context.Context, id int64) (Project, error) {
	var (
		projectObj core.Object
		languages  []ProjectLanguage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d", id)).
			SetRoute("/projects/{id}")
		obj, err := pipeline.Object(gctx, p.pipeline, req, core.IdentityConverter)
		projectObj = obj
		return err
	})
	g.Go(func() error {
		langs, err := p.Languages(gctx, id)
		languages = langs
		return err
	})
	if err := g.Wait(); err != nil {
		return Project{}, err
	}

	project, err := toProject(projectObj)
	if err != nil {
		return Project{}, core.NewMalformedResponseError("convert `data`", err)
	}
	project.Languages = languages
	for i := range languages {
		if languages[i].IsBaseLanguage {
			base := languages[i]
			project.BaseLanguage = &base
			break
		}
	}
	return project, nil
}

// Update changes the name or description of a project.
func (p *Projects) Update(ctx context.Context, id int64, update ProjectUpdate) error {
	req := core.NewRequest(core.OpUpdate, fmt.Sprintf("/projects/%d", id)).
		SetRoute("/projects/{id}")
	if update.Name != nil {
		req.SetQuery("name", *update.Name)
	}
	if update.Description != nil {
		req.SetQuery("description", *update.Description)
	}
	return p.pipeline.Exec(ctx, req)
}

// Delete removes a project.
func (p *Projects) Delete(ctx context.Context, id int64) error {
	req := core.NewRequest(core.OpDelete, fmt.Sprintf("/projects/%d", id)).
		SetRoute("/projects/{id}")
	return p.pipeline.Exec(ctx, req)
}

// Languages returns the languages of a project with their translation progress.
func (p *Projects) Languages(ctx context.Context, id int64) ([]ProjectLanguage, error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/projects/%d/languages", id)).
		SetRoute("/projects/{id}/languages")
	return pipeline.List(ctx, p.pipeline, req, toProjectLanguage)
}
