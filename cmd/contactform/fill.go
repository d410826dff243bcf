// cmd/contactform/fill.go
//
// `contactform fill` – fill the form in the terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/contactform/internal/form"
	"github.com/yanizio/contactform/internal/prompt"
)

func fillCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill the contact form in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(flags, false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			def := form.DefaultDefinition()
			if cfg.Form.Definition != "" {
				if def, err = form.LoadDefinition(cfg.Form.Definition); err != nil {
					return err
				}
			}

			run := &prompt.Runner{
				Def:    def,
				Driver: prompt.NewSurveyDriver(cmd.OutOrStdout()),
				Sink:   form.BuildSink(def, log, os.Stdout),
				Log:    log,
			}
			if _, err := run.Run(cmd.Context()); err != nil {
				if errors.Is(err, prompt.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
					return nil
				}
				return err
			}
			return nil
		},
	}
	return cmd
}
