package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nkmr-lab/meichaku/pkg/batch"
	"github.com/nkmr-lab/meichaku/pkg/extractor"
	"github.com/nkmr-lab/meichaku/pkg/store"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	inputFlag := flag.String("input", "", "Path to an email text file (default: stdin)")
	batchFlag := flag.String("batch", "", "Path to a file of emails separated by a line of exactly '---' (enables batch mode)")
	modelFlag := flag.String("model", "", "Path to a trained CRF model (default: bundled model)")
	dbFlag := flag.String("db", "", "Path to SQLite database for persisting results (batch mode only)")
	workersFlag := flag.Int("workers", 4, "Number of concurrent workers in batch mode")
	thresholdFlag := flag.Float64("threshold", extractor.DefaultConfidenceThreshold, "Confidence gate threshold; extractions below it count as failures")
	safeFlag := flag.Bool("safe", false, "Print an empty body instead of exiting with an error when extraction fails")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ex, err := extractor.New(extractor.WithConfidenceThreshold(*thresholdFlag))
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}
	if *modelFlag != "" {
		if err := ex.LoadModel(*modelFlag); err != nil {
			log.Fatalf("Failed to load model %s: %v", *modelFlag, err)
		}
		fmt.Printf("Loaded model from %s\n", *modelFlag)
	}

	if *batchFlag != "" {
		runBatch(ctx, ex, *batchFlag, *dbFlag, *workersFlag)
		return
	}

	runSingle(ex, *inputFlag, *safeFlag)
}

func runSingle(ex *extractor.EmailBodyExtractor, inputPath string, safe bool) {
	text, err := readInput(inputPath)
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	var body string
	if safe {
		body, err = ex.ExtractSafe(text)
	} else {
		body, err = ex.Extract(text)
	}
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	fmt.Println(body)
}

func runBatch(ctx context.Context, ex *extractor.EmailBodyExtractor, path, dbPath string, workers int) {
	texts, err := readBatchFile(path)
	if err != nil {
		log.Fatalf("Failed to read batch file: %v", err)
	}
	fmt.Printf("Loaded %d emails from %s\n", len(texts), path)

	var db *sql.DB
	if dbPath != "" {
		db, err = sql.Open("sqlite3", dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		if err := store.InitDB(db); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
	}

	proc := batch.NewProcessor(ex, workers)
	proc.OnProgress = func(done, total int) {
		fmt.Printf("\rProcessed %d/%d", done, total)
	}

	outcomes, err := proc.ProcessAll(ctx, texts)
	fmt.Println()
	if err != nil {
		log.Fatalf("Batch processing aborted: %v", err)
	}

	var succeeded int
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Printf("email %d: %v\n", o.Index, o.Err)
			continue
		}
		succeeded++

		if db != nil {
			if err := persist(db, texts[o.Index], o); err != nil {
				log.Printf("Warning: failed to persist result for email %d: %v", o.Index, err)
			}
		}
	}
	fmt.Printf("Extracted %d/%d bodies successfully.\n", succeeded, len(outcomes))
}

func persist(db *sql.DB, text string, o batch.Outcome) error {
	labelsJSON, err := json.Marshal(o.Meta.Lines)
	if err != nil {
		return err
	}
	sum := sha256.Sum256([]byte(text))
	rec := store.Extraction{
		InputHash:        hex.EncodeToString(sum[:]),
		Body:             o.Meta.Body,
		Confidence:       o.Meta.Confidence,
		Success:          true,
		InlineQuoteCount: o.Meta.InlineQuoteCount,
		LabelsJSON:       string(labelsJSON),
	}
	_, err = store.Save(db, rec)
	return err
}

func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

// readBatchFile splits path's contents into emails, each separated by
// a line containing exactly "---".
func readBatchFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var emails []string
	var cur strings.Builder
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "---" {
			emails = append(emails, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur.Len() > 0 {
		emails = append(emails, cur.String())
	}
	return emails, nil
}
