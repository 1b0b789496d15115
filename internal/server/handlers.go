package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/grocer/internal/assistant"
	"github.com/mohammad-safakhou/grocer/session"
	"go.uber.org/zap"
)

type retailerDTO struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Host string `json:"host"`
}

type sourceDTO struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Scraped bool   `json:"scraped"`
}

type sourcesEvent struct {
	Sources           []sourceDTO `json:"sources"`
	RetailersWithData []string    `json:"retailers_with_data"`
}

type outcomeDTO struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

func toOutcomeDTO(o assistant.Outcome) outcomeDTO {
	out := outcomeDTO{Status: string(o.Status), Reason: string(o.Reason)}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}
	return out
}

type doneEvent struct {
	Answer   string                `json:"answer"`
	Outcomes map[string]outcomeDTO `json:"outcomes"`
	Error    string                `json:"error,omitempty"`
}

func (s *Server) listRetailers(c echo.Context) error {
	rs := s.assistant.Retailers()
	out := make([]retailerDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, retailerDTO{Name: r.Name, URL: r.URL, Host: r.Host()})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createSession(c echo.Context) error {
	id, err := s.store.Create(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) listMessages(c echo.Context) error {
	h, err := s.store.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return storeError(err)
	}
	if h == nil {
		h = session.History{}
	}
	return c.JSON(http.StatusOK, h)
}

// postMessage runs one turn and streams it back as server-sent events
func (s *Server) postMessage(c echo.Context) error {
	var req struct {
		Question string `json:"question"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "question is required")
	}

	id := c.Param("id")
	ctx := c.Request().Context()
	if _, err := s.store.History(ctx, id); err != nil {
		return storeError(err)
	}

	unlock := s.lockSession(id)
	defer unlock()

	// re-read under the lock so a turn that just finished is included
	history, err := s.store.History(ctx, id)
	if err != nil {
		return storeError(err)
	}

	resp := c.Response()
	flusher, ok := resp.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "streaming unsupported")
	}
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	sse := &sseWriter{w: resp, flusher: flusher}

	turn := s.assistant.Turn(ctx, question, history, &sseProgress{sse: sse})

	sources := sourcesEvent{Sources: []sourceDTO{}, RetailersWithData: turn.Presence.Names()}
	for _, r := range turn.Results.Results {
		sources.Sources = append(sources.Sources, sourceDTO{URL: r.URL, Title: r.Title, Scraped: r.ScrapedContent != ""})
	}
	_ = sse.send("sources", sources)

	answer, streamErr := s.assistant.Reply(ctx, turn, func(chunk string) {
		_ = sse.send("chunk", map[string]string{"content": chunk})
	})
	if answer == "" {
		answer = assistant.Apology
	}

	// the exchange is recorded even when the client went away mid-answer
	if err := s.store.Append(context.WithoutCancel(ctx), id, assistant.Exchange(question, answer)...); err != nil {
		s.logger.Error("failed to append history", zap.String("session", id), zap.Error(err))
	}

	done := doneEvent{
		Answer: answer,
		Outcomes: map[string]outcomeDTO{
			"rewrite": toOutcomeDTO(turn.Rewrite.Outcome),
			"search":  toOutcomeDTO(turn.Search.Outcome),
			"scrape":  toOutcomeDTO(turn.Enrichment.Outcome),
			"answer":  toOutcomeDTO(turn.Answer.Outcome),
		},
	}
	if streamErr != nil {
		done.Error = streamErr.Error()
	}
	_ = sse.send("done", done)
	return nil
}

func storeError(err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

type sseWriter struct {
	w       *echo.Response
	flusher http.Flusher
}

func (s *sseWriter) send(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("event: " + event + "\n")); err != nil {
		return err
	}
	if _, err := s.w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// sseProgress forwards turn progress to the client
type sseProgress struct {
	sse *sseWriter
}

func (p *sseProgress) QueryRewritten(query string) {
	_ = p.sse.send("query", map[string]string{"query": query})
}

func (p *sseProgress) ScrapeStarted(i, n int, url string) {
	_ = p.sse.send("scrape", map[string]any{"index": i, "total": n, "url": url, "state": "started"})
}

func (p *sseProgress) ScrapeFinished(i, n int, url string, ok bool) {
	_ = p.sse.send("scrape", map[string]any{"index": i, "total": n, "url": url, "state": "finished", "ok": ok})
}

func (p *sseProgress) Warning(component, msg string) {
	_ = p.sse.send("warning", map[string]string{"component": component, "message": msg})
}
