package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sells-group/underwrite-cli/internal/extractor"
	"github.com/sells-group/underwrite-cli/internal/ingest"
)

var extractorsCmd = &cobra.Command{
	Use:   "extractors",
	Short: "List registered document extractors",
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, kind := range extractor.Kinds(extractor.DefaultRegistry().All()) {
			fmt.Println(kind)
		}
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <file>",
	Short: "Show which extractors would handle a document",
	Long:  "Runs only the matching step, useful for checking why a document was or was not picked up.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		text, err := ingest.FromFile(path)
		if err != nil {
			return err
		}

		matched := extractor.DefaultRegistry().Match(text, filepath.Base(path))
		if len(matched) == 0 {
			fmt.Fprintln(os.Stderr, "No extractor matched.")
			return nil
		}
		for _, ex := range matched {
			fmt.Println(ex.Kind())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractorsCmd)
	rootCmd.AddCommand(matchCmd)
}
