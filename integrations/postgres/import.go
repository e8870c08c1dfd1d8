package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/bankfeed/bankfeed/ai"
	"github.com/bankfeed/bankfeed/extractor"
	"github.com/bankfeed/bankfeed/extractor/common"
	"github.com/bankfeed/bankfeed/pipeline"
)

// ImportResult tracks the outcome of an import operation.
type ImportResult struct {
	Processed int
	Skipped   int
	Failed    int
	Errors    []string
}

// ImportOptions configures the import behavior.
type ImportOptions struct {
	Parse     common.Config
	Generator ai.Generator
	Verbose   bool
}

// ImportFile parses a single statement file and stores its transactions.
// Rows whose fingerprint is already in the database are counted as skipped.
func (db *DB) ImportFile(ctx context.Context, filePath string, opts ImportOptions) (processed, skipped, failed int, errs []string) {
	fileName := filepath.Base(filePath)

	cands, err := parseStatement(ctx, filePath, opts)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: %v", fileName, err)}
	}

	txs := pipeline.Normalize(cands, opts.Parse)
	if len(txs) == 0 {
		return 0, 0, 1, []string{fmt.Sprintf("%s: no transactions extracted", fileName)}
	}
	for i := range txs {
		txs[i].Origination = fileName
	}

	fingerprints := make([]string, len(txs))
	for i, tx := range txs {
		fingerprints[i] = tx.Fingerprint
	}
	existing, err := db.FilterExisting(ctx, fingerprints)
	if err != nil {
		return 0, 0, 1, []string{fmt.Sprintf("%s: %v", fileName, err)}
	}

	fresh := make([]pipeline.Transaction, 0, len(txs))
	for _, tx := range txs {
		if existing[tx.Fingerprint] {
			skipped++
			continue
		}
		fresh = append(fresh, tx)
	}

	sourceIDs, err := db.resolveSources(ctx, fresh)
	if err != nil {
		return 0, skipped, 1, []string{fmt.Sprintf("%s: %v", fileName, err)}
	}
	if err := db.CreateTransactions(ctx, fresh, sourceIDs); err != nil {
		return 0, skipped, 1, []string{fmt.Sprintf("%s: %v", fileName, err)}
	}
	processed = len(fresh)

	if err := db.RecordImport(ctx, fileName, processed, skipped); err != nil {
		errs = append(errs, fmt.Sprintf("%s: %v", fileName, err))
	}
	if opts.Verbose {
		log.Printf("OK   %s (%d imported, %d skipped)", fileName, processed, skipped)
	}
	return processed, skipped, failed, errs
}

func parseStatement(ctx context.Context, filePath string, opts ImportOptions) ([]common.Candidate, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".csv") {
		return extractor.ParseCSV(filePath)
	}
	return extractor.ParsePDF(ctx, filePath, opts.Parse, opts.Generator)
}

// resolveSources creates source rows for every distinct source hint in the
// batch.
func (db *DB) resolveSources(ctx context.Context, txs []pipeline.Transaction) (map[string]string, error) {
	ids := make(map[string]string)
	for _, tx := range txs {
		if tx.SourceHint == "" {
			continue
		}
		if _, ok := ids[tx.SourceHint]; ok {
			continue
		}
		id, err := db.GetOrCreateSource(ctx, tx.SourceHint)
		if err != nil {
			return nil, err
		}
		ids[tx.SourceHint] = id
	}
	return ids, nil
}

// ImportDirectory imports every PDF and CSV file in a directory.
func (db *DB) ImportDirectory(ctx context.Context, dirPath string, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dataFiles []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		lower := strings.ToLower(e.Name())
		if strings.HasSuffix(lower, ".pdf") || strings.HasSuffix(lower, ".csv") {
			dataFiles = append(dataFiles, filepath.Join(dirPath, e.Name()))
		}
	}

	log.Printf("Scanning: %s", dirPath)
	log.Printf("Found %d files (PDF/CSV)", len(dataFiles))

	for _, filePath := range dataFiles {
		processed, skipped, failed, errs := db.ImportFile(ctx, filePath, opts)
		result.Processed += processed
		result.Skipped += skipped
		result.Failed += failed
		result.Errors = append(result.Errors, errs...)

		if opts.Verbose && failed > 0 {
			for _, msg := range errs {
				log.Printf("FAIL %s", msg)
			}
		}
	}
	return result, nil
}

// Import handles both file and directory imports.
func (db *DB) Import(ctx context.Context, path string, opts ImportOptions) (*ImportResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if info.IsDir() {
		return db.ImportDirectory(ctx, path, opts)
	}

	result := &ImportResult{}
	result.Processed, result.Skipped, result.Failed, result.Errors = db.ImportFile(ctx, path, opts)
	return result, nil
}
