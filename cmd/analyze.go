package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/underwrite-cli/internal/engine"
	"github.com/sells-group/underwrite-cli/internal/ingest"
	"github.com/sells-group/underwrite-cli/internal/model"
)

var (
	analyzeLoanAmount    float64
	analyzeDebtService   float64
	analyzePropertyValue float64
	analyzeFilenameHint  string
	analyzeOutput        string
	analyzeNoSave        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a single property document",
	Long:  "Runs every matching extractor over the document, computes financial metrics and risk flags, and prints the full analysis.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		text, err := ingest.FromFile(path)
		if err != nil {
			return err
		}

		hint := analyzeFilenameHint
		if hint == "" {
			hint = filepath.Base(path)
		}

		doc := model.Document{Text: text, FilenameHint: hint}
		loan := loanTermsFromFlags(cmd)

		eng := engine.New(cfg.Risk, cfg.Validation)
		analysis, err := eng.Analyze(ctx, doc, loan)
		if err != nil {
			return eris.Wrapf(err, "analyze %s", path)
		}

		if len(analysis.Extractions) == 0 {
			zap.L().Warn("no extractor matched document", zap.String("file", path))
		}

		if cfg.Store.Path != "" && !analyzeNoSave {
			st, err := initStore()
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			run, err := st.SaveRun(ctx, hint, analysis)
			if err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		return writeAnalysis(os.Stdout, analysis, analyzeOutput)
	},
}

// loanTermsFromFlags returns only the terms the caller actually set, so an
// unset flag stays "not computable" instead of becoming a zero.
func loanTermsFromFlags(cmd *cobra.Command) model.LoanTerms {
	var loan model.LoanTerms
	if cmd.Flags().Changed("loan-amount") {
		loan.LoanAmount = model.Float(analyzeLoanAmount)
	}
	if cmd.Flags().Changed("debt-service") {
		loan.DebtService = model.Float(analyzeDebtService)
	}
	if cmd.Flags().Changed("property-value") {
		loan.PropertyValue = model.Float(analyzePropertyValue)
	}
	return loan
}

func writeAnalysis(w *os.File, analysis *model.Analysis, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(analysis), "encode analysis")
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close() //nolint:errcheck
		return eris.Wrap(enc.Encode(analysis), "encode analysis")
	default:
		return eris.Errorf("unsupported output format: %s (want json or yaml)", format)
	}
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeLoanAmount, "loan-amount", 0, "loan amount for leverage metrics")
	analyzeCmd.Flags().Float64Var(&analyzeDebtService, "debt-service", 0, "annual debt service for DSCR")
	analyzeCmd.Flags().Float64Var(&analyzePropertyValue, "property-value", 0, "property value for cap rate and LTV")
	analyzeCmd.Flags().StringVar(&analyzeFilenameHint, "filename-hint", "", "override the filename used for extractor matching")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "json", "output format (json, yaml)")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "skip persisting the run even when a store is configured")
	rootCmd.AddCommand(analyzeCmd)
}
