package onesky

import (
	"context"
	"fmt"

	"onesky/pkg/core"
	"onesky/pkg/pipeline"
)

// ProjectType is a kind of project such as "website" or "ios".
type ProjectType struct {
	Code string
	Name string
}

// Equal compares code and name.
func (t ProjectType) Equal(other ProjectType) bool {
	return t == other
}

func (t ProjectType) String() string {
	return fmt.Sprintf("ProjectType{code=%s, name=%s}", t.Code, t.Name)
}

type wireProjectType struct {
	Code *string `json:"code" validate:"required"`
	Name *string `json:"name" validate:"required"`
}

func (w wireProjectType) toProjectType() ProjectType {
	return ProjectType{Code: deref(w.Code), Name: deref(w.Name)}
}

func toProjectType(o core.Object) (ProjectType, error) {
	w, err := core.DecodeObject[wireProjectType](o)
	if err != nil {
		return ProjectType{}, err
	}
	return w.toProjectType(), nil
}

// ProjectTypes lists project types.
type ProjectTypes struct {
	pipeline *pipeline.Pipeline
}

// List returns every project type.
func (t *ProjectTypes) List(ctx context.Context) ([]ProjectType, error) {
	req := core.NewRequest(core.OpRead, "/project-types")
	return pipeline.List(ctx, t.pipeline, req, toProjectType)
}
