package cli

import (
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/invkeeper/internal/rotation"
	"github.com/spf13/cobra"
)

type appFunc func() *App

func parseProjectID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid project id %q", s)
	}
	return id, nil
}

func newImportCommand(app appFunc) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import an inventory workbook into a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(project)
			if err != nil {
				return err
			}

			res, err := app().importService.Import(cmd.Context(), args[0], id)
			if res != nil {
				success(cmd.OutOrStdout(), "stored %s (%s, %s)", res.Path, res.Format, res.Scope)
			}
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "%d inventory rows loaded", res.Rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newRotateCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "rotate",
		Short: "Change the system password and re-encrypt every inventory file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			w := cmd.OutOrStdout()

			pw, err := GetNewPassword(a.reader, w)
			if err != nil {
				return err
			}

			sum, err := a.passwordService.ChangePassword(cmd.Context(), pw, func(p rotation.Progress) {
				progressLine(w, p.Index, p.Total, p.FileName)
			})
			if sum.Total > 0 || err == nil {
				printSummary(w, sum)
			}
			return err
		},
	}
}

func newListCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List inventory files found in the search roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files := app().listService.List(cmd.Context())
			if len(files) == 0 {
				warning(cmd.OutOrStdout(), "no inventory files found")
				return nil
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", f.Name, f.Path)
			}
			return nil
		},
	}
}

func newExportCommand(app appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "export <container> <dest>",
		Short: "Write a password protected workbook for use outside invkeeper",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			pw, err := GetPassword(a.reader, "Workbook password (empty for system password)", cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := a.exportService.Export(cmd.Context(), args[0], args[1], pw); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "exported %s", args[1])
			return nil
		},
	}
}

func newPasswordCommand(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "System password commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Report whether the default password was changed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			custom, err := app().passwordService.HasCustomPassword(cmd.Context())
			if err != nil {
				return err
			}
			if custom {
				success(cmd.OutOrStdout(), "custom system password is set")
			} else {
				warning(cmd.OutOrStdout(), "default system password in use; run 'invkeeper rotate'")
			}
			return nil
		},
	})
	return cmd
}

func newProjectsCommand(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Project commands",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create a project",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := app().projectService.Create(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				success(cmd.OutOrStdout(), "project %d created: %s", p.ID, p.Nombre)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List projects",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				list, err := app().projectService.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, p := range list {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\t%s\t%s\n", p.ID, p.Index, p.Nombre, p.Creado.Format("2006-01-02"))
				}
				return nil
			},
		},
	)
	return cmd
}

func newInventoryCommand(app appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Inventory commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "count <project-id>",
		Short: "Count inventory rows of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			n, err := app().projectService.CountInventory(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	})
	return cmd
}
