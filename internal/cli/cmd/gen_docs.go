package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bnema/cardex/internal/infrastructure/config"
)

const docsDirPerm = 0o755

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:   "gen-docs",
	Short: "Generate documentation from CLI commands",
	Long: `Generate man pages or markdown from the CLI command definitions.

Supported formats:
  man       Unix manual pages (groff format)
  markdown  Markdown files

By default, man pages are installed to ~/.local/share/man/man1/ so they
are available via 'man cardex'. You may need to run 'mandb' afterwards.

Examples:
  cardex gen-docs                      # install man pages
  cardex gen-docs --format markdown    # markdown into ./docs
  cardex gen-docs --output ./man       # man pages into ./man`,
	Args: cobra.NoArgs,
	RunE: runGenDocs,
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "output directory for generated docs")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man", "output format: man, markdown")
}

func runGenDocs(cmd *cobra.Command, _ []string) error {
	outputDir, err := docsOutputDir(genDocsFormat, genDocsOutputDir)
	if err != nil {
		return err
	}
	return generateDocs(cmd.OutOrStdout(), rootCmd, genDocsFormat, outputDir)
}

func docsOutputDir(format, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	switch format {
	case "man":
		manDir, err := config.GetManDir()
		if err != nil {
			return "", fmt.Errorf("resolve man directory: %w", err)
		}
		return manDir, nil
	case "markdown":
		return "./docs", nil
	default:
		return "", fmt.Errorf("unsupported format %q (use: man, markdown)", format)
	}
}

// generateDocs writes docs for root and its subcommands into outputDir.
func generateDocs(w io.Writer, root *cobra.Command, format, outputDir string) error {
	if err := os.MkdirAll(outputDir, docsDirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Reproducible output: no generation timestamp footer.
	root.DisableAutoGenTag = true

	var ext string
	switch format {
	case "man":
		ext = ".1"
		now := time.Now()
		header := &doc.GenManHeader{
			Title:   "CARDEX",
			Section: "1",
			Source:  "cardex " + buildInfo.Version,
			Manual:  "Cardex Manual",
			Date:    &now,
		}
		if err := doc.GenManTree(root, header, outputDir); err != nil {
			return fmt.Errorf("generate man pages: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Installed man pages to %s\n", outputDir)
	case "markdown":
		ext = ".md"
		if err := doc.GenMarkdownTree(root, outputDir); err != nil {
			return fmt.Errorf("generate markdown docs: %w", err)
		}
		_, _ = fmt.Fprintf(w, "Generated markdown docs in %s\n", outputDir)
	default:
		return fmt.Errorf("unsupported format %q (use: man, markdown)", format)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil // listing is informational
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			_, _ = fmt.Fprintf(w, "  - %s\n", e.Name())
		}
	}
	return nil
}
