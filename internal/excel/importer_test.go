package excel

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/internal/study"
	"github.com/example/vocabgym/pkg/models"
)

func setup(t *testing.T) *database.WordRepository {
	t.Helper()
	t.Setenv("DB_TYPE", "sqlite")
	t.Setenv("DATA_DIR", t.TempDir())
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })
	return database.NewWordRepository()
}

func createSet(t *testing.T, repo *database.WordRepository) int64 {
	t.Helper()
	set := &models.WordSet{Name: "Imported", LanguageCode: "en"}
	require.NoError(t, repo.CreateWordSet(context.Background(), set))
	return set.ID
}

func TestImportExcelWordSet(t *testing.T) {
	repo := setup(t)
	setID := createSet(t, repo)
	ctx := context.Background()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Word", "Translation", "Part of speech", "Example"},
		{"serendipity", "happy accident", "noun", "Finding it was pure serendipity."},
		{"", "orphaned translation"},
		{"laconic", "terse", "adjective"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	result, err := NewImporter(repo).ImportWordSet(ctx, setID, "list.xlsx", buf, DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 1)

	ids, err := repo.WordIDsBySet(ctx, setID)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	word, err := repo.WordByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "serendipity", word.Lemma)
	assert.Equal(t, "happy accident", word.Translation)
	assert.Equal(t, "noun", word.PartOfSpeech)
	assert.Equal(t, "en", word.LanguageCode)
}

func TestImportCSVWordSet(t *testing.T) {
	repo := setup(t)
	setID := createSet(t, repo)

	csv := "word,translation,pos,example\n" +
		"garrulous,talkative,adjective,\n" +
		"ubiquitous,everywhere,adjective,Coffee shops are ubiquitous.\n"

	result, err := NewImporter(repo).ImportWordSet(context.Background(), setID, "list.csv", strings.NewReader(csv), DefaultImportConfig())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestImportUnknownSet(t *testing.T) {
	repo := setup(t)

	_, err := NewImporter(repo).ImportWordSet(context.Background(), 42, "list.csv", strings.NewReader("a,b\n"), DefaultImportConfig())
	assert.Equal(t, study.KindNotFound, study.KindOf(err))
}
