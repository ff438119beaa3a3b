// Package dashboard serves the side-by-side comparison UI and its JSON API.
// The API accepts a question plus a strategy selection and returns each
// strategy's answer, source documents and step trace.
package dashboard

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ragscope/ragscope/log"
	"github.com/ragscope/ragscope/strategy"
)

// Server is the dashboard HTTP server.
type Server struct {
	runner *strategy.Runner
	logger log.Logger
	echo   *echo.Echo
}

// New builds the server and registers its routes.
func New(runner *strategy.Runner, logger log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{runner: runner, logger: logger, echo: e}

	registerStaticHandler(e)
	e.GET("/healthz", s.healthz)
	e.GET("/api/strategies", s.listStrategies)
	e.POST("/api/compare", s.compare)

	return s
}

// Start serves until the listener fails or the server is shut down.
func (s *Server) Start(addr string) error {
	s.logger.Info("dashboard listening on %s", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type strategyInfo struct {
	Name    string `json:"name"`
	Mermaid string `json:"mermaid"`
}

func (s *Server) listStrategies(c echo.Context) error {
	infos := make([]strategyInfo, 0)
	for _, name := range s.runner.Names() {
		st, ok := s.runner.Strategy(name)
		if !ok {
			continue
		}
		infos = append(infos, strategyInfo{Name: name, Mermaid: st.Mermaid()})
	}
	return c.JSON(http.StatusOK, infos)
}

type compareRequest struct {
	Question   string   `json:"question"`
	Strategies []string `json:"strategies"`
}

type sourceDocument struct {
	ID      string            `json:"id"`
	Content string            `json:"content"`
	Source  string            `json:"source,omitempty"`
	Score   float64           `json:"score"`
	Meta    map[string]string `json:"metadata,omitempty"`
}

type strategyResult struct {
	Strategy   string           `json:"strategy"`
	Answer     string           `json:"answer"`
	AnswerHTML string           `json:"answer_html"`
	Sources    []sourceDocument `json:"sources"`
	Trace      []string         `json:"trace"`
	Steps      int              `json:"steps"`
	DurationMS int64            `json:"duration_ms"`
	Cached     bool             `json:"cached"`
	Error      string           `json:"error,omitempty"`
}

type compareResponse struct {
	Question string           `json:"question"`
	Results  []strategyResult `json:"results"`
}

func (s *Server) compare(c echo.Context) error {
	req := new(compareRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "question is required"})
	}

	results := s.runner.Compare(c.Request().Context(), req.Question, req.Strategies...)

	resp := compareResponse{Question: req.Question, Results: make([]strategyResult, 0, len(results))}
	for _, r := range results {
		resp.Results = append(resp.Results, toStrategyResult(r))
	}
	return c.JSON(http.StatusOK, resp)
}

func toStrategyResult(r strategy.Result) strategyResult {
	out := strategyResult{
		Strategy:   r.Strategy,
		Answer:     r.Answer,
		Sources:    make([]sourceDocument, 0, len(r.Matches)),
		Trace:      r.Trace,
		Steps:      r.Steps,
		DurationMS: r.Duration.Milliseconds(),
		Cached:     r.Cached,
		Error:      r.Err,
	}
	if r.Answer != "" {
		out.AnswerHTML = renderAnswer(r.Answer)
	}
	for _, m := range r.Matches {
		out.Sources = append(out.Sources, sourceDocument{
			ID:      m.Document.ID,
			Content: m.Document.Content,
			Source:  m.Document.Metadata["source"],
			Score:   m.Score,
			Meta:    trimMeta(m.Document.Metadata),
		})
	}
	return out
}

func trimMeta(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if k == "source" {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
