package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/example/vocabgym/internal/study"
)

// startSession creates a new study session
// POST /api/study/sessions
func (s *Server) startSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	var req study.StartSessionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, study.Invalidf("invalid request body"))
	}
	view, err := s.study.Start(c.Request().Context(), uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// activeSession returns the user's active session, if any
// GET /api/study/sessions/active
func (s *Server) activeSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	view, err := s.study.ActiveSession(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	if view == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, view)
}

// getSession returns a session by ID
// GET /api/study/sessions/:id
func (s *Server) getSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	view, err := s.study.Session(c.Request().Context(), sessionID, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// nextCard returns the next word to study, or 204 when the session is done
// GET /api/study/sessions/:id/next
func (s *Server) nextCard(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	card, err := s.study.NextCard(c.Request().Context(), sessionID, uid)
	if err != nil {
		return writeError(c, err)
	}
	if card == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, card)
}

// submitAnswer records one answer for a card
// POST /api/study/sessions/:id/answers
func (s *Server) submitAnswer(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req study.AnswerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, study.Invalidf("invalid request body"))
	}
	result, err := s.study.SubmitAnswer(c.Request().Context(), sessionID, uid, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// completeSession finishes a session and returns its summary
// POST /api/study/sessions/:id/complete
func (s *Server) completeSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	summary, err := s.study.Complete(c.Request().Context(), sessionID, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// abandonSession discards a session without scheduling effects
// POST /api/study/sessions/:id/abandon
func (s *Server) abandonSession(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := s.study.Abandon(c.Request().Context(), sessionID, uid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// sessionHistory lists the user's past sessions
// GET /api/study/sessions/history
func (s *Server) sessionHistory(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return writeError(c, study.Invalidf("limit must be a non-negative integer"))
		}
	}
	history, err := s.study.History(c.Request().Context(), uid, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// dueCounts returns the user's due-word counters
// GET /api/study/due
func (s *Server) dueCounts(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	counts, err := s.due.Counts(c.Request().Context(), uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

// dueWords lists the most overdue words first
// GET /api/study/due/words
func (s *Server) dueWords(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return writeError(c, err)
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return writeError(c, study.Invalidf("limit must be a non-negative integer"))
		}
	}
	list, err := s.due.List(c.Request().Context(), uid, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
