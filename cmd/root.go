package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"repocat/pkg/config"
	"repocat/pkg/document"
	"repocat/pkg/fileset"
	"repocat/pkg/ignore"
	"repocat/pkg/logging"
	"repocat/pkg/progress"
	"repocat/pkg/version"
)

var (
	flagConfig     string
	flagOutput     string
	flagPreamble   string
	flagIgnoreFile string
	flagExcludes   []string
	flagMaxBytes   int64
	flagNoProgress bool
	flagDebug      bool
)

var logger *zap.Logger

// RootCmd is the base command; invoked without a subcommand it runs the
// serialization pipeline against the given path (default ".").
var RootCmd = &cobra.Command{
	Use:   "repocat [path]",
	Short: "Serialize a directory tree into one document for LLM input",
	Long: `Repocat converts a directory tree into a single deterministically
ordered plain-text document: a preamble, a numbered table of contents, and
one section per included file, terminated by an end marker.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

func init() {
	RootCmd.Flags().StringVar(&flagConfig, "config", "", "Explicit config file (fatal if unreadable or malformed)")
	RootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output document path")
	RootCmd.Flags().StringVar(&flagPreamble, "preamble", "", "Preamble text file")
	RootCmd.Flags().StringVar(&flagIgnoreFile, "ignore-file", "", "Ignore-spec file name, relative to the repo root")
	RootCmd.Flags().StringArrayVar(&flagExcludes, "exclude", nil, "Additional ignore pattern (repeatable)")
	RootCmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 0, "Per-file content byte ceiling")
	RootCmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Disable the progress indicator")
	RootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

// Execute runs the root command with the given logger.
func Execute(l *zap.Logger) error {
	logger = l
	return RootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if flagDebug {
		if dev, err := logging.Setup(true, "repocat", version.Get().Version); err == nil {
			logger = dev
		}
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("repository path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %s is not a directory", root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("repository path %s: %w", root, err)
	}

	settings, err := config.Resolve(absRoot, flagConfig, logger)
	if err != nil {
		return err
	}
	applyFlags(cmd, &settings)

	conv := ignore.HostConvention()
	spec, err := ignore.Load(filepath.Join(absRoot, settings.IgnoreFile), conv)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("ignore file %s: %w", settings.IgnoreFile, err)
		}
		spec = ignore.Spec{}
	}
	if len(flagExcludes) > 0 {
		extra := ignore.Parse([]byte(strings.Join(flagExcludes, "\n")), conv)
		spec.Exclude = append(spec.Exclude, extra.Exclude...)
		spec.Reinclude = append(spec.Reinclude, extra.Reinclude...)
	}

	preamble, err := config.LoadPreamble(settings.PreamblePath)
	if err != nil {
		return err
	}

	reserved := reservedPaths(absRoot, settings)
	files, err := fileset.Resolve(absRoot, spec, reserved, logger)
	if err != nil {
		return fmt.Errorf("failed to resolve file set: %w", err)
	}

	observer := progress.ForTerminal(len(files), settings.ShowProgress)
	assembler := document.NewAssembler(absRoot, settings.MaxFileBytes, preamble, observer, logger)
	if err := assembler.WriteFile(settings.OutputFile, files); err != nil {
		return err
	}

	logger.Info("Wrote combined document",
		zap.String("output", settings.OutputFile),
		zap.Int("fileCount", len(files)))
	return nil
}

// applyFlags lays the command-line layer on top of the resolved settings.
func applyFlags(cmd *cobra.Command, settings *config.Settings) {
	if cmd.Flags().Changed("output") {
		settings.OutputFile = flagOutput
	}
	if cmd.Flags().Changed("preamble") {
		settings.PreamblePath = flagPreamble
	}
	if cmd.Flags().Changed("ignore-file") {
		settings.IgnoreFile = flagIgnoreFile
	}
	if cmd.Flags().Changed("max-bytes") {
		settings.MaxFileBytes = flagMaxBytes
	}
	if flagNoProgress {
		settings.ShowProgress = false
	}
}

// reservedPaths maps the ignore-spec, output, and preamble paths to
// root-relative form; paths outside the root need no reservation.
func reservedPaths(absRoot string, settings config.Settings) []string {
	var reserved []string
	for _, p := range []string{
		filepath.Join(absRoot, settings.IgnoreFile),
		settings.OutputFile,
		settings.PreamblePath,
	} {
		if p == "" || p == absRoot {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(absRoot, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		reserved = append(reserved, filepath.ToSlash(rel))
	}
	return reserved
}
