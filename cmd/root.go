package main

import (
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/urbandatalab/udlai-go/internal/config"
	"github.com/urbandatalab/udlai-go/internal/render"
	"github.com/urbandatalab/udlai-go/pkg/udlai"
)

var cfg *config.Config

var (
	flagToken  string
	flagFormat string
	flagOut    string
)

var rootCmd = &cobra.Command{
	Use:   "udlai",
	Short: "UDL.AI geospatial API client",
	Long:  "Query the UDL.AI attribute catalog, point features, zonal aggregates and geocoding endpoints, with tabular output.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if flagToken != "" {
			cfg.API.Token = flagToken
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config and UDLAI_API_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text, csv, json or xlsx")
	rootCmd.PersistentFlags().StringVar(&flagOut, "out", "", "output file (required for xlsx, default stdout otherwise)")
}

// newClient builds the API client from config and flags.
func newClient() (udlai.Client, error) {
	if cfg.API.Token == "" {
		return nil, eris.New("api token not set (use --token, UDLAI_API_TOKEN or config.yaml)")
	}

	opts := []udlai.Option{
		udlai.WithBaseURL(cfg.API.BaseURL),
		udlai.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout()}),
	}
	if cfg.API.RateLimit > 0 {
		opts = append(opts, udlai.WithRateLimit(cfg.API.RateLimit))
	}

	return udlai.NewClient(cfg.API.Token, opts...), nil
}

// writeTable renders a result table per the --format and --out flags.
func writeTable(t *udlai.Table) error {
	format := render.Format(flagFormat)

	if format == render.FormatXLSX {
		if flagOut == "" {
			return eris.New("xlsx output requires --out")
		}
		return render.XLSX(flagOut, t)
	}

	w := os.Stdout
	if flagOut != "" {
		f, err := os.Create(flagOut)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	return render.Table(w, t, format)
}

// recordTable renders a single flat record as a field/value table.
func recordTable(rec udlai.Record) *udlai.Table {
	fields := make([]string, 0, len(rec))
	for k := range rec {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	t := &udlai.Table{Columns: []string{"field", "value"}}
	for _, k := range fields {
		t.Rows = append(t.Rows, udlai.Record{"field": k, "value": rec[k]})
	}
	return t
}

// logWarnings surfaces coverage diagnostics without failing the command.
func logWarnings(warnings []string) {
	for _, w := range warnings {
		zap.L().Warn(w)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
