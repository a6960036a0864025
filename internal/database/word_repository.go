package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/vocabgym/internal/study"
	"github.com/example/vocabgym/pkg/models"
)

// WordRepository handles database operations for words and word sets
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

// WordByID returns a word by ID
func (r *WordRepository) WordByID(ctx context.Context, id int64) (*models.Word, error) {
	var word models.Word
	err := DB.GetContext(ctx, &word, "SELECT * FROM words WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, study.NotFoundf("word %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word: %v", err)
	}
	return &word, nil
}

// WordIDsBySet returns the word IDs of a set in position order
func (r *WordRepository) WordIDsBySet(ctx context.Context, wordSetID int64) ([]int64, error) {
	var ids []int64
	err := DB.SelectContext(ctx, &ids,
		"SELECT word_id FROM word_set_items WHERE word_set_id = $1 ORDER BY position", wordSetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get word set items: %v", err)
	}
	return ids, nil
}

// Words returns all words, optionally filtered by language code
func (r *WordRepository) Words(ctx context.Context, languageCode string) ([]models.Word, error) {
	var words []models.Word
	var err error
	if languageCode == "" {
		err = DB.SelectContext(ctx, &words, "SELECT * FROM words ORDER BY lemma")
	} else {
		err = DB.SelectContext(ctx, &words,
			"SELECT * FROM words WHERE language_code = $1 ORDER BY lemma", languageCode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get words: %v", err)
	}
	return words, nil
}

// UpsertWord inserts the word or updates its details when (lemma, language)
// already exists, filling in the ID either way.
func (r *WordRepository) UpsertWord(ctx context.Context, word *models.Word) error {
	if DB.DriverName() == "postgres" {
		return DB.QueryRowContext(ctx, `
			INSERT INTO words (lemma, part_of_speech, language_code, translation, example)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (lemma, language_code) DO UPDATE SET
				part_of_speech = EXCLUDED.part_of_speech,
				translation = EXCLUDED.translation,
				example = EXCLUDED.example,
				updated_at = CURRENT_TIMESTAMP
			RETURNING id
		`, word.Lemma, word.PartOfSpeech, word.LanguageCode, word.Translation, word.Example,
		).Scan(&word.ID)
	}
	_, err := DB.ExecContext(ctx, `
		INSERT INTO words (lemma, part_of_speech, language_code, translation, example)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lemma, language_code) DO UPDATE SET
			part_of_speech = excluded.part_of_speech,
			translation = excluded.translation,
			example = excluded.example,
			updated_at = CURRENT_TIMESTAMP
	`, word.Lemma, word.PartOfSpeech, word.LanguageCode, word.Translation, word.Example)
	if err != nil {
		return fmt.Errorf("failed to upsert word: %v", err)
	}
	// The upsert may have hit an existing row, so read the ID back
	return DB.GetContext(ctx, &word.ID,
		"SELECT id FROM words WHERE lemma = $1 AND language_code = $2", word.Lemma, word.LanguageCode)
}

// WordSets returns all word sets ordered by name
func (r *WordRepository) WordSets(ctx context.Context) ([]models.WordSet, error) {
	var sets []models.WordSet
	err := DB.SelectContext(ctx, &sets, "SELECT * FROM word_sets ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get word sets: %v", err)
	}
	return sets, nil
}

// WordSetByID returns a word set by ID
func (r *WordRepository) WordSetByID(ctx context.Context, id int64) (*models.WordSet, error) {
	var set models.WordSet
	err := DB.GetContext(ctx, &set, "SELECT * FROM word_sets WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, study.NotFoundf("word set %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get word set: %v", err)
	}
	return &set, nil
}

// CreateWordSet inserts a new word set; the name must be unique
func (r *WordRepository) CreateWordSet(ctx context.Context, set *models.WordSet) error {
	if DB.DriverName() == "postgres" {
		err := DB.QueryRowContext(ctx, `
			INSERT INTO word_sets (name, description, language_code)
			VALUES ($1, $2, $3)
			RETURNING id
		`, set.Name, set.Description, set.LanguageCode).Scan(&set.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return study.Conflictf("word set %q already exists", set.Name)
			}
			return fmt.Errorf("failed to create word set: %v", err)
		}
		return nil
	}
	res, err := DB.ExecContext(ctx, `
		INSERT INTO word_sets (name, description, language_code)
		VALUES ($1, $2, $3)
	`, set.Name, set.Description, set.LanguageCode)
	if err != nil {
		if isUniqueViolation(err) {
			return study.Conflictf("word set %q already exists", set.Name)
		}
		return fmt.Errorf("failed to create word set: %v", err)
	}
	set.ID, err = res.LastInsertId()
	return err
}

// AddWordToSet links a word to a set at the given position. Adding a word
// that is already in the set is a no-op.
func (r *WordRepository) AddWordToSet(ctx context.Context, wordSetID, wordID int64, position int) error {
	_, err := DB.ExecContext(ctx, `
		INSERT INTO word_set_items (word_set_id, word_id, position)
		VALUES ($1, $2, $3)
		ON CONFLICT (word_set_id, word_id) DO NOTHING
	`, wordSetID, wordID, position)
	if err != nil {
		return fmt.Errorf("failed to add word to set: %v", err)
	}
	return nil
}
