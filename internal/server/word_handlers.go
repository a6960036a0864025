package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/vocabgym/internal/excel"
	"github.com/example/vocabgym/internal/study"
	"github.com/example/vocabgym/pkg/models"
)

// listWords returns all known words, optionally filtered by language
// GET /api/words
func (s *Server) listWords(c echo.Context) error {
	words, err := s.words.Words(c.Request().Context(), c.QueryParam("language"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, words)
}

// listWordSets returns all word sets
// GET /api/word-sets
func (s *Server) listWordSets(c echo.Context) error {
	sets, err := s.words.WordSets(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sets)
}

type createWordSetRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	LanguageCode string `json:"language_code"`
}

// createWordSet creates an empty word set
// POST /api/word-sets
func (s *Server) createWordSet(c echo.Context) error {
	var req createWordSetRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, study.Invalidf("invalid request body"))
	}
	if req.Name == "" {
		return writeError(c, study.Invalidf("name is required"))
	}
	if req.LanguageCode == "" {
		return writeError(c, study.Invalidf("language_code is required"))
	}
	set := &models.WordSet{
		Name:         req.Name,
		Description:  req.Description,
		LanguageCode: req.LanguageCode,
	}
	if err := s.words.CreateWordSet(c.Request().Context(), set); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, set)
}

// importWordSet loads an uploaded Excel or CSV word list into a set
// POST /api/word-sets/:id/import
func (s *Server) importWordSet(c echo.Context) error {
	setID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, study.Invalidf("file upload is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return writeError(c, study.Invalidf("failed to open uploaded file"))
	}
	defer file.Close()

	config := excel.DefaultImportConfig()
	if lang := c.FormValue("language_code"); lang != "" {
		config.LanguageCode = lang
	}
	result, err := s.importer.ImportWordSet(c.Request().Context(), setID, fileHeader.Filename, file, config)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
