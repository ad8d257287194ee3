package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"stockview/internal/config"
	"stockview/internal/conversion"
	"stockview/internal/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// convert turns a workbook into inventory_data.json without the server,
// reading shelf-life overrides from product_config.json.
func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	in := flag.String("in", "", "workbook to convert (default: newest .xlsx in the current directory)")
	out := flag.String("out", "inventory_data.json", "output file")
	overrides := flag.String("overrides", "product_config.json", "per-product shelf-life overrides")
	policyFile := flag.String("policy", cfg.PolicyFile, "sheet policy TOML file")
	flag.Parse()

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	if err := run(*in, *out, *overrides, *policyFile, appLogger); err != nil {
		appLogger.Error("conversion failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(in, out, overridesPath, policyFile string, appLogger *zap.Logger) error {
	policy, err := config.LoadPolicy(policyFile)
	if err != nil {
		return err
	}
	if in == "" {
		if in, err = conversion.FindLatestWorkbook("."); err != nil {
			return err
		}
		appLogger.Info("found workbook", zap.String("file", in))
	}
	overrides, err := conversion.LoadOverrides(overridesPath)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := conversion.NewConverter(policy, appLogger).Convert(f, filepath.Base(in), overrides)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	appLogger.Info("converted",
		zap.String("source", in),
		zap.String("output", out),
		zap.String("date_ton_kho", doc.Metadata.DateTonKho),
		zap.Int("sheets", doc.Metadata.TotalSheets),
		zap.Int("products", doc.Metadata.TotalProducts))
	return nil
}
