package onesky

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// ProjectGroup groups projects that share a base language.
type ProjectGroup struct {
	ID   int64
	Name string
	// BaseLocale is returned by Create only.
	BaseLocale *Locale
	// EnabledLanguageCount and ProjectCount are returned by Retrieve only.
	EnabledLanguageCount *int
	ProjectCount         *int
}

// Equal reports whether both groups have the same ID.
func (g ProjectGroup) Equal(other ProjectGroup) bool {
	return g.ID == other.ID
}

func (g ProjectGroup) String() string {
	return fmt.Sprintf("ProjectGroup{id=%d, name=%s}", g.ID, g.Name)
}

type wireProjectGroup struct {
	ID                   *int64        `json:"id" validate:"required"`
	Name                 *string       `json:"name" validate:"required"`
	BaseLanguage         *wireLanguage `json:"base_language"`
	EnabledLanguageCount *int          `json:"enabled_language_count"`
	ProjectCount         *int          `json:"project_count"`
}

func toProjectGroup(o core.Object) (ProjectGroup, error) {
	w, err := core.DecodeObject[wireProjectGroup](o)
	if err != nil {
		return ProjectGroup{}, err
	}
	base, err := optionalLocale(w.BaseLanguage)
	if err != nil {
		return ProjectGroup{}, err
	}
	return ProjectGroup{
		ID:                   *w.ID,
		Name:                 *w.Name,
		BaseLocale:           base,
		EnabledLanguageCount: w.EnabledLanguageCount,
		ProjectCount:         w.ProjectCount,
	}, nil
}

// ProjectGroupLanguage is a language enabled in a project group.
type ProjectGroupLanguage struct {
	Locale
	IsBaseLanguage bool
}

// Equal reports whether both entries have the same locale code and base flag.
func (l ProjectGroupLanguage) Equal(other ProjectGroupLanguage) bool {
	return l.Locale.Equal(other.Locale) && l.IsBaseLanguage == other.IsBaseLanguage
}

type wireGroupLanguage struct {
	wireLanguage
	IsBaseLanguage *bool `json:"is_base_language"`
}

func toProjectGroupLanguage(o core.Object) (ProjectGroupLanguage, error) {
	w, err := core.DecodeObject[wireGroupLanguage](o)
	if err != nil {
		return ProjectGroupLanguage{}, err
	}
	l, err := w.toLocale()
	if err != nil {
		return ProjectGroupLanguage{}, err
	}
	return ProjectGroupLanguage{Locale: l, IsBaseLanguage: deref(w.IsBaseLanguage)}, nil
}

// ProjectGroups manages project groups.
type ProjectGroups struct {
	pipeline *pipeline.Pipeline
}

// List returns one page of project groups.
func (g *ProjectGroups) List(ctx context.Context, page core.PageRequest) (core.Page[ProjectGroup], error) {
	req := core.NewRequest(core.OpRead, "/project-groups")
	return pipeline.Paged(ctx, g.pipeline, req, page, toProjectGroup)
}

// Create creates a project group. A nil baseLocale leaves the server default (English).
func (g *ProjectGroups) Create(ctx context.Context, name string, baseLocale *language.Tag) (ProjectGroup, error) {
	if name == "" {
		return ProjectGroup{}, core.NewArgumentError("project group name must not be empty")
	}
	req := core.NewRequest(core.OpCreate, "/project-groups").SetQuery("name", name)
	if baseLocale != nil {
		req.SetQuery("locale", LocaleCode(*baseLocale))
	}
	return pipeline.Object(ctx, g.pipeline, req, toProjectGroup)
}

// Retrieve returns the project group with the given ID.
func (g *ProjectGroups) Retrieve(ctx context.Context, id int64) (ProjectGroup, error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/project-groups/%d", id)).
		SetRoute("/project-groups/{id}")
	return pipeline.Object(ctx, g.pipeline, req, toProjectGroup)
}

// Delete removes the project group and every project in it.
func (g *ProjectGroups) Delete(ctx context.Context, id int64) error {
	req := core.NewRequest(core.OpDelete, fmt.Sprintf("/project-groups/%d", id)).
		SetRoute("/project-groups/{id}")
	return g.pipeline.Exec(ctx, req)
}

// Languages returns the languages enabled in the project group.
func (g *ProjectGroups) Languages(ctx context.Context, id int64) ([]ProjectGroupLanguage, error) {
	req := core.NewRequest(core.OpRead, fmt.Sprintf("/project-groups/%d/languages", id)).
		SetRoute("/project-groups/{id}/languages")
	return pipeline.List(ctx, g.pipeline, req, toProjectGroupLanguage)
}
