package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bankfeed/bankfeed/ai"
	"github.com/bankfeed/bankfeed/extractor"
	"github.com/bankfeed/bankfeed/extractor/common"
	"github.com/bankfeed/bankfeed/pipeline"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse statement(s)",
	Long: `Parses a given statement file or every statement in a directory.
Detects the statement dialect per file and prints the normalized
transactions as JSON on stdout.`,
	Run: runParse,
}

func runParse(cmd *cobra.Command, args []string) {
	target := viper.GetString("target")
	cfg := configFromViper()
	gen := generatorFromConfig(cfg)
	ctx := context.Background()

	info, err := os.Stat(target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var files []string
	if info.IsDir() {
		entries, err := os.ReadDir(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".pdf", ".csv":
				files = append(files, filepath.Join(target, entry.Name()))
			}
		}
	} else {
		files = []string{target}
	}

	output := make(map[string][]pipeline.Transaction, len(files))
	for _, file := range files {
		log.Printf("parsing %s", file)
		cands, err := parseFile(ctx, file, cfg, gen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", file, err)
			continue
		}
		txs := pipeline.Normalize(cands, cfg)
		base := filepath.Base(file)
		for i := range txs {
			txs[i].Origination = base
		}
		output[base] = txs
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFile(ctx context.Context, path string, cfg common.Config, gen ai.Generator) ([]common.Candidate, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return extractor.ParseCSV(path)
	}
	return extractor.ParsePDF(ctx, path, cfg, gen)
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringP("folder", "f", ".", "File or folder in which bankfeed will scan for statements")
	viper.BindPFlag("target", parseCmd.Flags().Lookup("folder"))
}
