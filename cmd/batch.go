package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"splitpay/internal/reconcile"
	"splitpay/internal/ui"
)

func newBatchCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Resolve the status of many purchases from a file",
		Long: `Read one purchase reference per line from the file, resolve each
against the partner concurrently and write the outcomes next to the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filePath := args[0]

			refs, err := readReferences(filePath)
			if err != nil {
				return fmt.Errorf("error reading file %s: %w", filePath, err)
			}
			if len(refs) == 0 {
				fmt.Printf("%sNo purchase references found in file: %s\n", appCtx.GetPrefix(), filePath)
				return nil
			}

			fmt.Printf("%sFound %d purchase references to resolve\n", appCtx.GetPrefix(), len(refs))

			results := engine.ResolveBatch(context.Background(), refs, appCtx.IsSandbox(), concurrency)

			outputPath := filePath + "_results.txt"
			if err := writeResults(outputPath, results); err != nil {
				return fmt.Errorf("error writing batch results: %w", err)
			}
			fmt.Printf("%sBatch completed. Results written to %s\n", appCtx.GetPrefix(), outputPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum partner calls in flight")
	return cmd
}

// readReferences reads one purchase reference per line, skipping blanks and
// comment lines.
func readReferences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var refs []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		refs = append(refs, line)
	}
	return refs, scanner.Err()
}

func writeResults(path string, results []reconcile.BatchResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := bufio.NewWriter(file)
	for _, r := range results {
		if _, err := fmt.Fprintln(writer, ui.FormatOutcome("", r.Outcome)); err != nil {
			return err
		}
	}
	return writer.Flush()
}
