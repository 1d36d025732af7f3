package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/doxmerge/pkg/config"
	"github.com/arthur-debert/doxmerge/pkg/eups"
	"github.com/arthur-debert/doxmerge/pkg/logging"
	"github.com/arthur-debert/doxmerge/pkg/merge"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// Build-time version information, set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// databaseFactory builds the product database. Swappable in tests.
var databaseFactory = func() eups.Database { return eups.NewCLI() }

var (
	verbosity      int
	diagrams       bool
	noDiagrams     bool
	useCurrent     bool
	outputDir      string
	htmlDir        string
	latexDir       string
	projectName    string
	depTag         string
	ignoreProducts []string

	rootCmd = &cobra.Command{
		Use:   "doxmerge PRODUCT [VERSION]",
		Short: "Build a merged Doxygen configuration for a product stack",
		Long: `doxmerge collects the Doxygen configuration fragments of a product and its
transitive dependencies (as known to EUPS), merges them into one consolidated
configuration, and writes it to standard output for redirection into doxygen:

  doxmerge afw 12.1 > Doxyfile && doxygen Doxyfile

Each product's paths are rewritten to its installed location, duplicate
mainpage declarations are demoted to per-product sub-pages, and conflicting
boolean options resolve in favor of YES.`,
		Args: cobra.RangeArgs(1, 2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.root")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			tag := depTag
			if tag == "" && useCurrent {
				tag = "current"
			}

			opts := merge.Options{
				Product:     args[0],
				Tag:         tag,
				Diagrams:    diagrams && !noDiagrams,
				OutputDir:   outputDir,
				HTMLDir:     htmlDir,
				LaTeXDir:    latexDir,
				ProjectName: projectName,
			}
			if len(args) > 1 {
				opts.Version = args[1]
			}
			if cmd.Flags().Changed("ignore") {
				opts.IgnoreProducts = ignoreProducts
			}

			logger.Info().
				Str("product", opts.Product).
				Str("version", opts.Version).
				Str("tag", opts.Tag).
				Bool("diagrams", opts.Diagrams).
				Msg("Merging Doxygen fragments")

			driver := merge.New(databaseFactory(), cfg)
			return driver.Run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.Flags().BoolVar(&diagrams, "diagrams", false, "Enable dot-based diagram generation in the merged configuration")
	rootCmd.Flags().BoolVar(&noDiagrams, "no-diagrams", false, "Force diagram generation off")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Value for OUTPUT_DIRECTORY")
	rootCmd.Flags().StringVar(&htmlDir, "html-dir", "", "Value for HTML_OUTPUT")
	rootCmd.Flags().StringVar(&latexDir, "latex-dir", "", "Value for LATEX_OUTPUT")
	rootCmd.Flags().StringVar(&projectName, "project-name", "", "Value for PROJECT_NAME (defaults to the product name)")
	rootCmd.Flags().StringVar(&depTag, "tag", "", "Resolve dependencies through this tag instead of the exact as-installed closure")
	rootCmd.Flags().BoolVar(&useCurrent, "current", false, `Resolve dependencies through the "current" tag (same as --tag current)`)
	rootCmd.Flags().StringSliceVar(&ignoreProducts, "ignore", nil, "Replace the configured list of products skipped for lacking a fragment")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(topicsCmd)

	initTemplateFormatting()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print version information for doxmerge`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("doxmerge version %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(doxmerge completion bash)

Zsh:
  $ doxmerge completion zsh > "${fpath[1]}/_doxmerge"

Fish:
  $ doxmerge completion fish | source

PowerShell:
  PS> doxmerge completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		switch args[0] {
		case "bash":
			if err := cmd.Root().GenBashCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate bash completion")
			}
		case "zsh":
			if err := cmd.Root().GenZshCompletion(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate zsh completion")
			}
		case "fish":
			if err := cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true); err != nil {
				log.Error().Err(err).Msg("Failed to generate fish completion")
			}
		case "powershell":
			if err := cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout()); err != nil {
				log.Error().Err(err).Msg("Failed to generate powershell completion")
			}
		}
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	Long:  `Generate man page for doxmerge`,
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "DOXMERGE",
			Section: "1",
		}
		return doc.GenManTree(rootCmd, header, os.TempDir())
	},
}
