package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/invkeeper/internal/config"
	"github.com/dmitrijs2005/invkeeper/internal/container"
	"github.com/spf13/cobra"
)

// options carries what tests override; the zero value is production.
type options struct {
	codec  *container.Codec
	logOut io.Writer
	stdin  io.Reader
}

// NewRootCommand builds the invkeeper command tree. The returned func
// releases whatever the executed command opened and is safe to call when
// nothing ran.
func NewRootCommand(version string) (*cobra.Command, func() error) {
	return newRootCommand(version, options{})
}

func newRootCommand(version string, opts options) (*cobra.Command, func() error) {
	var app *App

	root := &cobra.Command{
		Use:   "invkeeper",
		Short: "Encrypted inventory spreadsheet exchange",
		Long: `invkeeper keeps inventory workbooks encrypted under one system password.

It imports workbooks from other installs (plain or password protected),
re-encrypts every inventory file when the password changes and loads the
SystemInfo sheet of each import into the database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			logOut := opts.logOut
			if logOut == nil {
				logOut = cmd.ErrOrStderr()
			}
			app, err = NewApp(cmd.Context(), cfg, logOut, opts.codec)
			if err != nil {
				return err
			}
			if opts.stdin != nil {
				app.reader = bufio.NewReader(opts.stdin)
			}
			return nil
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	current := func() *App { return app }
	root.AddCommand(
		newImportCommand(current),
		newRotateCommand(current),
		newListCommand(current),
		newExportCommand(current),
		newPasswordCommand(current),
		newProjectsCommand(current),
		newInventoryCommand(current),
	)

	closeApp := func() error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	}
	return root, closeApp
}

// Execute runs the command tree and reports errors on stderr.
func Execute(ctx context.Context, version string) int {
	root, closeApp := NewRootCommand(version)
	defer closeApp()

	if err := root.ExecuteContext(ctx); err != nil {
		failure(os.Stderr, "%v", err)
		return 1
	}
	return 0
}
