package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/vocabgym/internal/study"
)

type addVocabularyRequest struct {
	WordID int64  `json:"word_id"`
	Notes  string `json:"notes"`
}

// addVocabularyWord adds a word to the user's personal vocabulary
// POST /api/vocabulary
func (s *Server) addVocabularyWord(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req addVocabularyRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, study.Invalidf("invalid request body"))
	}
	if req.WordID <= 0 {
		return writeError(c, study.Invalidf("word_id must be a positive integer"))
	}
	record, err := s.vocab.AddWord(c.Request().Context(), uid, req.WordID, req.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, record)
}

// listVocabulary returns the user's vocabulary with word details
// GET /api/vocabulary
func (s *Server) listVocabulary(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	words, err := s.vocab.Words(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, words)
}

// removeVocabularyWord removes a word from the user's vocabulary
// DELETE /api/vocabulary/:wordId
func (s *Server) removeVocabularyWord(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	wordID, err := pathID(c, "wordId")
	if err != nil {
		return writeError(c, err)
	}
	if err := s.vocab.RemoveWord(c.Request().Context(), uid, wordID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
