package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/terraincognita07/flowcast/internal/services"
)

// RunExportCommand writes the JSON snapshot to outputPath, or to stdout when the path is
// empty or "-".
func RunExportCommand(dbPath string, outputPath string, stdout io.Writer, now time.Time) error {
	repositories, closeDatabase, err := openRepositories(dbPath)
	if err != nil {
		return err
	}
	defer closeDatabase()

	snapshot, err := services.NewExportService(repositories.Snapshot).ExportSnapshot(now)
	if err != nil {
		return err
	}
	payload, err := services.MarshalSnapshot(snapshot)
	if err != nil {
		return err
	}

	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" || outputPath == "-" {
		_, err := stdout.Write(payload)
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, payload, 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	fmt.Fprintf(stdout, "✅ Exported %d entries and %d symptoms to %s\n", len(snapshot.Entries), len(snapshot.Symptoms), outputPath)
	return nil
}

// RunImportCommand replaces stored data with the collections present in the file.
func RunImportCommand(dbPath string, inputPath string, stdout io.Writer) error {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return errors.New("import file is required")
	}
	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}

	repositories, closeDatabase, err := openRepositories(dbPath)
	if err != nil {
		return err
	}
	defer closeDatabase()

	summary, err := services.NewExportService(repositories.Snapshot).ImportSnapshot(payload)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "✅ Import successful")
	if summary.EntriesReplaced {
		fmt.Fprintf(stdout, "Entries: %d\n", summary.Entries)
	}
	if summary.SymptomsReplaced {
		fmt.Fprintf(stdout, "Symptoms: %d\n", summary.Symptoms)
	}
	return nil
}
