package main

import (
	"github.com/spf13/cobra"

	"github.com/MikeConnelly/Finance-Tracker/internal/category"
	"github.com/MikeConnelly/Finance-Tracker/internal/config"
	"github.com/MikeConnelly/Finance-Tracker/internal/financedata"
	"github.com/MikeConnelly/Finance-Tracker/internal/ingest"
	"github.com/MikeConnelly/Finance-Tracker/internal/logger"
	"github.com/MikeConnelly/Finance-Tracker/internal/report"
)

var (
	configPath    string
	bankDir       string
	creditCardDir string
	outputPath    string
	verbose       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Parse activity exports and write the xlsx report",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&configPath, "config", "./config/config.json", "category rules file")
	generateCmd.Flags().StringVar(&bankDir, "bank-dir", "./bank_activity", "directory of bank activity exports")
	generateCmd.Flags().StringVar(&creditCardDir, "credit-card-dir", "./credit_card_activity", "directory of credit card activity exports")
	generateCmd.Flags().StringVar(&outputPath, "output", "output.xlsx", "report file to write")
	generateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every unmatched description")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := logger.New(verbose)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	taxonomy, err := category.NewTaxonomy(cfg.Categories)
	if err != nil {
		return err
	}
	store := financedata.NewStore(taxonomy)
	ctx := cmd.Context()

	bankClassifier := category.NewClassifier(taxonomy, category.CreditDebitFallback(), log)
	bank := ingest.NewIngestor(store, bankClassifier, ingest.BankParser{}, log)
	if err := bank.IngestDir(ctx, bankDir); err != nil {
		return err
	}

	cardClassifier := category.NewClassifier(taxonomy, category.FixedFallback("expenses", "unknown"), log)
	card := ingest.NewIngestor(store, cardClassifier, ingest.CreditCardParser{}, log)
	if err := card.IngestDir(ctx, creditCardDir); err != nil {
		return err
	}

	bankStats, cardStats := bankClassifier.Stats(), cardClassifier.Stats()
	log.Info().
		Int("bank_rows", bank.Rows()).
		Int("bank_skipped", bank.Skipped()).
		Int("card_rows", card.Rows()).
		Int("card_skipped", card.Skipped()).
		Int("unmatched", bankStats.NoMatch+cardStats.NoMatch).
		Int("invalid_overrides", bankStats.InvalidOverride+cardStats.InvalidOverride).
		Msg("ingestion complete")

	return report.NewWriter(store, log).WriteWorkbook(outputPath)
}
