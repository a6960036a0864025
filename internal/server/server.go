package server

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/vocabgym/internal/database"
	"github.com/example/vocabgym/internal/excel"
	"github.com/example/vocabgym/internal/study"
)

// Server exposes the study engine over HTTP
type Server struct {
	echo     *echo.Echo
	study    *study.Service
	due      *study.DueService
	vocab    *study.VocabularyService
	words    *database.WordRepository
	importer *excel.Importer
}

// New builds the server and registers all routes
func New(studySvc *study.Service, due *study.DueService, vocab *study.VocabularyService, words *database.WordRepository, importer *excel.Importer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	s := &Server{
		echo:     e,
		study:    studySvc,
		due:      due,
		vocab:    vocab,
		words:    words,
		importer: importer,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.echo.Group("/api")

	sessions := api.Group("/study/sessions")
	sessions.POST("", s.startSession)
	sessions.GET("/active", s.activeSession)
	sessions.GET("/history", s.sessionHistory)
	sessions.GET("/:id", s.getSession)
	sessions.GET("/:id/next", s.nextCard)
	sessions.POST("/:id/answers", s.submitAnswer)
	sessions.POST("/:id/complete", s.completeSession)
	sessions.POST("/:id/abandon", s.abandonSession)

	api.GET("/study/due", s.dueCounts)
	api.GET("/study/due/words", s.dueWords)

	api.POST("/vocabulary", s.addVocabularyWord)
	api.GET("/vocabulary", s.listVocabulary)
	api.DELETE("/vocabulary/:wordId", s.removeVocabularyWord)

	api.GET("/words", s.listWords)
	api.GET("/word-sets", s.listWordSets)
	api.POST("/word-sets", s.createWordSet)
	api.POST("/word-sets/:id/import", s.importWordSet)
}

// Start begins serving on addr and blocks until shutdown
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// userID extracts the acting user from the user_id query parameter or the
// X-User-ID header.
func userID(c echo.Context) (int64, error) {
	raw := c.QueryParam("user_id")
	if raw == "" {
		raw = c.Request().Header.Get("X-User-ID")
	}
	if raw == "" {
		return 0, study.Invalidf("user_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, study.Invalidf("user_id must be a positive integer")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, study.Invalidf("%s must be a positive integer", name)
	}
	return id, nil
}

// writeError maps study error kinds onto HTTP statuses
func writeError(c echo.Context, err error) error {
	var status int
	switch study.KindOf(err) {
	case study.KindConflict:
		status = http.StatusConflict
	case study.KindNotFound:
		status = http.StatusNotFound
	case study.KindInvalid:
		status = http.StatusBadRequest
	default:
		log.Printf("internal error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
