package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tunafish2k/minipatch/internal/version"
	"github.com/tunafish2k/minipatch/pkg/core"
	"github.com/tunafish2k/minipatch/pkg/errors"
	"github.com/tunafish2k/minipatch/pkg/logging"
	"github.com/tunafish2k/minipatch/pkg/paths"
)

var (
	verbosity int
	dryRun    bool
	packType  string
	dataDir   string

	rootCmd = &cobra.Command{
		Use:   "minipatch <pack-dir>",
		Short: "Prune and re-brand a Minecraft resource pack",
		Long: `minipatch applies a declarative rule set to delete files inside a
Minecraft resource pack, overlays replacement files from the overrides
directory, and patches the pack description and credits.

The pack directory may be the pack root itself or any parent; the first
directory containing pack.mcmeta is patched.`,
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPatch,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Patch data directory (default $MINIPATCH_DATA_DIR or XDG config)")

	rootCmd.Flags().StringVarP(&packType, "type", "t", paths.VariantLegacy, "Resource pack type (legacy or modern)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview deletions and copies without performing them")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(genconfigCmd)
}

func runPatch(cmd *cobra.Command, args []string) error {
	if !paths.ValidVariant(packType) {
		return errors.Newf(errors.ErrInvalidInput, "unknown pack type %q (want %s or %s)",
			packType, paths.VariantLegacy, paths.VariantModern)
	}

	logger := logging.GetLogger("cmd.patch")
	logger.Info().
		Str("packDir", args[0]).
		Str("type", packType).
		Bool("dryRun", dryRun).
		Msg("Starting patch")

	result, err := core.PatchPack(core.PatchPackOptions{
		PackDir: args[0],
		Variant: packType,
		DataDir: dataDir,
		DryRun:  dryRun,
	})
	if err != nil {
		return err
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", d)
	}

	if result.DryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Dry run: %d namespaces evaluated, %d files would be overridden\n",
			result.Namespaces, result.FilesCopied)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatBold("Complete!"))
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for minipatch`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minipatch version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}
