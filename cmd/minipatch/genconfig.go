package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tunafish2k/minipatch/pkg/config"
	"github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/paths"
)

var genconfigWrite bool

var genconfigCmd = &cobra.Command{
	Use:   "genconfig",
	Short: "Print or write the effective settings as TOML",
	Long: `genconfig renders the effective settings, with any MINIPATCH_*
environment overrides applied, as a TOML document. By default the result
goes to stdout; with --write it is saved as settings.toml in the patch
data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := paths.New(dataDir)

		settings, err := config.LoadSettings(p.SettingsFile(), nil)
		if err != nil {
			return err
		}

		out, err := config.MarshalSettings(settings)
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "failed to render settings")
		}

		if !genconfigWrite {
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		}

		target := p.SettingsFile()
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(target))
		}
		if err := os.WriteFile(target, out, 0644); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", target)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Settings written to %s\n", target)
		return nil
	},
}

func init() {
	genconfigCmd.Flags().BoolVar(&genconfigWrite, "write", false, "Write settings.toml into the patch data directory")
}
