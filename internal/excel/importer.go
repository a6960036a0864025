package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/pkg/models"
)

// ImportConfig defines how a word list file maps onto word fields
type ImportConfig struct {
	LemmaColumn        int    // 0-based column index of the word itself
	TranslationColumn  int    // Column with the translation
	PartOfSpeechColumn int    // Column with the part of speech
	ExampleColumn      int    // Column with an example sentence
	SheetName          string // Sheet to import (Excel only)
	StartRow           int    // 1-based row to start from
	LanguageCode       string // Language of the imported words
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LemmaColumn:        0,
		TranslationColumn:  1,
		PartOfSpeechColumn: 2,
		ExampleColumn:      3,
		SheetName:          "Sheet1",
		StartRow:           2, // Skip the header row
		LanguageCode:       "en",
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int      `json:"total_processed"`
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

// Importer loads word list files into a word set
type Importer struct {
	words *database.WordRepository
}

// NewImporter creates a new importer
func NewImporter(words *database.WordRepository) *Importer {
	return &Importer{words: words}
}

// ImportWordSet reads an Excel or CSV word list and loads it into the given
// word set. The filename only decides the format; the content comes from r.
func (im *Importer) ImportWordSet(ctx context.Context, wordSetID int64, filename string, r io.Reader, config ImportConfig) (*ImportResult, error) {
	if _, err := im.words.WordSetByID(ctx, wordSetID); err != nil {
		return nil, err
	}

	var rows [][]string
	var err error
	if strings.ToLower(filepath.Ext(filename)) == ".csv" {
		rows, err = readCSV(r)
	} else {
		rows, err = readExcel(r, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	position := 0
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		result.TotalProcessed++

		word, err := rowToWord(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		if err := im.words.UpsertWord(ctx, word); err != nil {
			return nil, fmt.Errorf("failed to import row %d: %v", i+1, err)
		}
		if err := im.words.AddWordToSet(ctx, wordSetID, word.ID, position); err != nil {
			return nil, fmt.Errorf("failed to import row %d: %v", i+1, err)
		}
		position++
		result.Imported++
	}
	return result, nil
}

func rowToWord(row []string, config ImportConfig) (*models.Word, error) {
	lemma := strings.TrimSpace(cell(row, config.LemmaColumn))
	if lemma == "" {
		return nil, fmt.Errorf("empty word")
	}
	return &models.Word{
		Lemma:        lemma,
		Translation:  strings.TrimSpace(cell(row, config.TranslationColumn)),
		PartOfSpeech: strings.TrimSpace(cell(row, config.PartOfSpeechColumn)),
		Example:      strings.TrimSpace(cell(row, config.ExampleColumn)),
		LanguageCode: config.LanguageCode,
	}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func readExcel(r io.Reader, sheetName string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
