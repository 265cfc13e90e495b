package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"onesky/pkg/core"
	"onesky/pkg/onesky"
)

type pageFlags struct {
	page    int
	perPage int
}

func (f *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", 50, fmt.Sprintf("items per page (max %d)", core.MaxItemsPerPage))
}

func (f *pageFlags) request() core.PageRequest {
	return core.PageRequest{PageNumber: f.page, MaxItemsPerPage: f.perPage}
}

func parseLocaleFlag(s string) (*language.Tag, error) {
	if s == "" {
		return nil, nil
	}
	tag, err := onesky.ParseLocale(s)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (a *app) localesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List the locales OneSky supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			locales, err := a.client.Locales().List(a.context(cmd))
			if err != nil {
				return err
			}
			t := newTable(a.out, "CODE", "ENGLISH NAME", "LOCAL NAME", "REGION")
			for _, l := range locales {
				t.row(l.Code, l.EnglishName, l.LocalName, l.Region)
			}
			return t.flush()
		},
	}
}

func (a *app) projectTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "project-types",
		Short: "List project types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := a.client.ProjectTypes().List(a.context(cmd))
			if err != nil {
				return err
			}
			t := newTable(a.out, "CODE", "NAME")
			for _, pt := range types {
				t.row(pt.Code, pt.Name)
			}
			return t.flush()
		},
	}
}

func (a *app) projectGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project-groups",
		Aliases: []string{"groups"},
		Short:   "Manage project groups",
	}

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List project groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.client.ProjectGroups().List(a.context(cmd), pf.request())
			if err != nil {
				return err
			}
			t := newTable(a.out, "ID", "NAME")
			for _, g := range page.Items() {
				t.row(fmt.Sprint(g.ID), g.Name)
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(a.out, page)
			return nil
		},
	}
	pf.register(list)

	show := &cobra.Command{
		Use:   "show GROUP_ID",
		Short: "Show a project group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			g, err := a.client.ProjectGroups().Retrieve(a.context(cmd), id)
			if err != nil {
				return err
			}
			t := newTable(a.out, "ID", "NAME", "LANGUAGES", "PROJECTS")
			t.row(fmt.Sprint(g.ID), g.Name, optInt(g.EnabledLanguageCount), optInt(g.ProjectCount))
			return t.flush()
		},
	}

	var baseLocale string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a project group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, err := parseLocaleFlag(baseLocale)
			if err != nil {
				return err
			}
			g, err := a.client.ProjectGroups().Create(a.context(cmd), args[0], locale)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created project group %d (%s)\n", g.ID, g.Name)
			return nil
		},
	}
	create.Flags().StringVar(&baseLocale, "locale", "", "base locale (default en)")

	del := &cobra.Command{
		Use:   "delete GROUP_ID",
		Short: "Delete a project group and all of its projects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			if err := a.client.ProjectGroups().Delete(a.context(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted project group %d\n", id)
			return nil
		},
	}

	languages := &cobra.Command{
		Use:   "languages GROUP_ID",
		Short: "List the languages enabled in a project group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			langs, err := a.client.ProjectGroups().Languages(a.context(cmd), id)
			if err != nil {
				return err
			}
			t := newTable(a.out, "CODE", "ENGLISH NAME", "BASE")
			for _, l := range langs {
				t.row(l.Code, l.EnglishName, yesNo(l.IsBaseLanguage))
			}
			return t.flush()
		},
	}

	cmd.AddCommand(list, show, create, del, languages)
	return cmd
}

func (a *app) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage projects",
	}

	list := &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List the projects of a project group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			projects, err := a.client.Projects().List(a.context(cmd), id)
			if err != nil {
				return err
			}
			t := newTable(a.out, "ID", "NAME")
			for _, p := range projects {
				t.row(fmt.Sprint(p.ID), p.Name)
			}
			return t.flush()
		},
	}

	show := &cobra.Command{
		Use:   "show PROJECT_ID",
		Short: "Show a project and the progress of its languages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			p, err := a.client.Projects().Retrieve(a.context(cmd), id)
			if err != nil {
				return err
			}
			projectType := "-"
			if p.Type != nil {
				projectType = p.Type.Code
			}
			fmt.Fprintf(a.out, "%d  %s  type=%s  strings=%s  words=%s\n",
				p.ID, p.Name, projectType, optInt(p.StringCount), optInt(p.WordCount))
			if p.Description != nil {
				fmt.Fprintln(a.out, *p.Description)
			}
			fmt.Fprintln(a.out)

			t := newTable(a.out, "CODE", "BASE", "READY", "PROGRESS", "UPLOADED")
			for _, l := range p.Languages {
				t.row(l.Code, yesNo(l.IsBaseLanguage), yesNo(l.IsReadyToPublish), percent(l.TranslationProgress), optTime(l.UploadedAt))
			}
			return t.flush()
		},
	}

	var create onesky.ProjectCreate
	createCmd := &cobra.Command{
		Use:   "create GROUP_ID",
		Short: "Create a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "group id")
			if err != nil {
				return err
			}
			p, err := a.client.Projects().Create(a.context(cmd), id, create)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created project %d (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	createCmd.Flags().StringVar(&create.ProjectType, "type", "", "project type code, see project-types")
	createCmd.Flags().StringVar(&create.Name, "name", "", "project name")
	createCmd.Flags().StringVar(&create.Description, "description", "", "project description")

	var name, description string
	update := &cobra.Command{
		Use:   "update PROJECT_ID",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			var u onesky.ProjectUpdate
			if cmd.Flags().Changed("name") {
				u.Name = &name
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if u.Name == nil && u.Description == nil {
				return fmt.Errorf("nothing to update, set --name or --description")
			}
			if err := a.client.Projects().Update(a.context(cmd), id, u); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "updated project %d\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&description, "description", "", "new description")

	del := &cobra.Command{
		Use:   "delete PROJECT_ID",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			if err := a.client.Projects().Delete(a.context(cmd), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted project %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, show, createCmd, update, del)
	return cmd
}

func (a *app) filesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the source files of a project",
	}

	var pf pageFlags
	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List uploaded files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			page, err := a.client.Files().List(a.context(cmd), id, pf.request())
			if err != nil {
				return err
			}
			t := newTable(a.out, "NAME", "STRINGS", "LAST IMPORT", "UPLOADED")
			for _, f := range page.Items() {
				lastImport := "-"
				if f.LastImport != nil {
					lastImport = fmt.Sprintf("%d %s", f.LastImport.ID, f.LastImport.Status)
				}
				t.row(f.Name, optInt(f.StringCount), lastImport, optTime(f.UploadedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(a.out, page)
			return nil
		},
	}
	pf.register(list)

	var format, locale string
	var keepAll bool
	upload := &cobra.Command{
		Use:   "upload PROJECT_ID PATH",
		Short: "Upload a source or translation file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			fileFormat, err := onesky.ParseFileFormat(format)
			if err != nil {
				return err
			}
			tag, err := parseLocaleFlag(locale)
			if err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			u := onesky.FileUpload{
				FileName: filepath.Base(f.Name()),
				Format:   fileFormat,
				Content:  f,
				Locale:   tag,
			}
			if cmd.Flags().Changed("keep-all-strings") {
				u.KeepAllStrings = &keepAll
			}
			uploaded, err := a.client.Files().Upload(a.context(cmd), id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "uploaded %s, import task %d\n", uploaded.Name, uploaded.Import.ID)
			return nil
		},
	}
	upload.Flags().StringVar(&format, "format", "", "file format, e.g. GNU_PO or HIERARCHICAL_JSON")
	upload.Flags().StringVar(&locale, "locale", "", "locale of the file (default is the base language)")
	upload.Flags().BoolVar(&keepAll, "keep-all-strings", true, "keep strings missing from this upload")
	upload.MarkFlagRequired("format")

	del := &cobra.Command{
		Use:   "delete PROJECT_ID FILE_NAME",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			if err := a.client.Files().Delete(a.context(cmd), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(list, upload, del)
	return cmd
}

func (a *app) importTasksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-tasks",
		Short: "Inspect file import tasks",
	}

	var pf pageFlags
	var status string
	list := &cobra.Command{
		Use:   "list PROJECT_ID",
		Short: "List import tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			page, err := a.client.ImportTasks().List(a.context(cmd), id, onesky.ImportStatus(status), pf.request())
			if err != nil {
				return err
			}
			t := newTable(a.out, "ID", "FILE", "STATUS", "CREATED")
			for _, task := range page.Items() {
				t.row(fmt.Sprint(task.ID), task.FileName, string(task.Status), optTime(task.CreatedAt))
			}
			if err := t.flush(); err != nil {
				return err
			}
			pageFooter(a.out, page)
			return nil
		},
	}
	pf.register(list)
	list.Flags().StringVar(&status, "status", "", "all, completed, in-progress or failed")

	show := &cobra.Command{
		Use:   "show PROJECT_ID IMPORT_ID",
		Short: "Show an import task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			importID, err := parseID(args[1], "import id")
			if err != nil {
				return err
			}
			task, err := a.client.ImportTasks().Retrieve(a.context(cmd), projectID, importID)
			if err != nil {
				return err
			}
			locale := "-"
			if task.Locale != nil {
				locale = task.Locale.Code
			}
			t := newTable(a.out, "ID", "FILE", "LOCALE", "STATUS", "STRINGS", "WORDS")
			t.row(fmt.Sprint(task.ID), task.FileName, locale, string(task.Status), optInt(task.StringCount), optInt(task.WordCount))
			return t.flush()
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func (a *app) translationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translations",
		Short: "Export translations and check their progress",
	}

	status := &cobra.Command{
		Use:   "status PROJECT_ID FILE_NAME LOCALE",
		Short: "Show the translation progress of a file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			tag, err := onesky.ParseLocale(args[2])
			if err != nil {
				return err
			}
			s, err := a.client.Translations().Status(a.context(cmd), id, args[1], tag)
			if err != nil {
				return err
			}
			t := newTable(a.out, "FILE", "LOCALE", "PROGRESS", "STRINGS", "WORDS")
			t.row(s.FileName, s.Locale.Code, percent(s.Progress), optInt(s.StringCount), optInt(s.WordCount))
			return t.flush()
		},
	}

	var output, exportName string
	export := &cobra.Command{
		Use:   "export PROJECT_ID FILE_NAME LOCALE",
		Short: "Download a translated file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			tag, err := onesky.ParseLocale(args[2])
			if err != nil {
				return err
			}
			body, err := a.client.Translations().Export(a.context(cmd), id, onesky.TranslationExport{
				Locale:         tag,
				SourceFileName: args[1],
				ExportFileName: exportName,
			})
			if err != nil {
				return err
			}
			return a.writeOutput(output, body)
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	export.Flags().StringVar(&exportName, "export-name", "", "file name OneSky gives the export")

	var multiOutput, multiFormat string
	multilingual := &cobra.Command{
		Use:   "export-multilingual PROJECT_ID FILE_NAME",
		Short: "Download a file holding every language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "project id")
			if err != nil {
				return err
			}
			body, err := a.client.Translations().ExportMultilingual(a.context(cmd), id, onesky.MultilingualExport{
				SourceFileName: args[1],
				FileFormat:     multiFormat,
			})
			if err != nil {
				return err
			}
			return a.writeOutput(multiOutput, body)
		},
	}
	multilingual.Flags().StringVarP(&multiOutput, "output", "o", "", "write to this file instead of stdout")
	multilingual.Flags().StringVar(&multiFormat, "format", onesky.DefaultMultilingualFormat, "multilingual file format")

	cmd.AddCommand(status, export, multilingual)
	return cmd
}

func (a *app) writeOutput(path string, body []byte) error {
	if path == "" {
		_, err := a.out.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return err
	}
	a.logger.Info().Str("path", path).Int("bytes", len(body)).Msg("export written")
	return nil
}
