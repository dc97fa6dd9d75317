package cmd

import (
	"fmt"

	"github.com/KaramelBytes/surveyloom/internal/parser"
	"github.com/spf13/cobra"
)

var convertOutDir string

var convertCmd = &cobra.Command{
	Use:   "convert <files...>",
	Short: "Convert codebook guides (html, pdf, docx, md, txt) to plain text",
	Long: `Convert extracts the visible text of codebook guides so they can be read and
searched alongside the data. A guide saved as name_html.txt is treated as
HTML and written as name.txt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed int
		for _, path := range args {
			out, err := parser.Convert(path, convertOutDir)
			if err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s -> %s\n", path, out)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to convert", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertOutDir, "out-dir", "text", "directory for the converted text files")
}
