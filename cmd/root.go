package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"optimg/internal/processor"
)

const defaultRoot = "public"

var (
	flagMaxWidth      int
	flagQuality       int
	flagMethod        int
	flagExclude       []string
	flagExtensions    []string
	flagLogoMarker    string
	flagWorkers       int
	flagTimeout       time.Duration
	flagDryRun        bool
	flagNoProgress    bool
	flagAllowFailures bool
)

var rootCmd = &cobra.Command{
	Use:   "optimg [root]",
	Short: "optimg - convert site images to compressed WebP",
	Long: "optimg walks an asset directory (default ./public), downscales images wider than " +
		"the width limit and writes a WebP copy next to each original. Originals are never modified.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := optionsFromFlags()
		if err != nil {
			return err
		}
		opts.DryRun = flagDryRun
		return runBatch(cmd.Context(), cmd.OutOrStdout(), rootArg(args), opts)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "optimg:", err)
		os.Exit(1)
	}
}

func rootArg(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return defaultRoot
}

func optionsFromFlags() (processor.Options, error) {
	opts := processor.DefaultOptions()
	opts.MaxWidth = flagMaxWidth
	opts.Quality = flagQuality
	opts.Method = flagMethod
	opts.LogoMarker = flagLogoMarker
	opts.Workers = flagWorkers
	opts.FileTimeout = flagTimeout
	opts.Rules = processor.ScanRules{
		Extensions:  flagExtensions,
		ExcludeDirs: flagExclude,
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

func init() {
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&flagMaxWidth, "max-width", "w", processor.DefaultMaxWidth, "downscale images wider than this many pixels")
	flags.IntVarP(&flagQuality, "quality", "q", processor.DefaultQuality, "WebP quality (0-100)")
	flags.IntVarP(&flagMethod, "method", "m", processor.DefaultMethod, "WebP encoder effort (0 fast - 6 smallest)")
	flags.StringSliceVar(&flagExclude, "exclude", processor.DefaultExcludeDirs, "directory names to skip at any depth")
	flags.StringSliceVar(&flagExtensions, "ext", processor.DefaultExtensions, "file extensions to convert")
	flags.StringVar(&flagLogoMarker, "logo-marker", processor.DefaultLogoMarker, "paths containing this text are never downscaled")
	flags.IntVarP(&flagWorkers, "workers", "j", 1, "number of images converted at once")
	flags.DurationVar(&flagTimeout, "timeout", 0, "per-image time limit (0 for none)")
	flags.BoolVar(&flagNoProgress, "no-progress", false, "print plain lines instead of the progress view")
	flags.BoolVar(&flagAllowFailures, "allow-failures", false, "exit 0 even when some images fail")

	rootCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "report what would be done without writing files")
}
