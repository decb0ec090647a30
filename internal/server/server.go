package server

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/krishadi/ulgo/internal/calculation"
	"github.com/krishadi/ulgo/internal/config"
	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

// Server exposes the illustration engine and premium solver over a small
// JSON API. Presentation proper (tables, PDFs) stays with the callers.
type Server struct {
	Engine *calculation.CalculationEngine
	Solver *solver.Solver
	parser *config.InputParser
}

// New creates a server around an engine and its default solver.
func New(engine *calculation.CalculationEngine) *Server {
	return &Server{
		Engine: engine,
		Solver: solver.NewDefaultSolver(engine),
		parser: config.NewInputParser(),
	}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	return fasthttp.ListenAndServe(addr, s.Handle)
}

// Handle routes a single request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/healthz":
		s.handleHealth(ctx)
	case "/illustrate":
		s.handleIllustrate(ctx)
	case "/solve":
		s.handleSolve(ctx)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIllustrate(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "POST required")
		return
	}

	var input domain.PolicyInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.parser.ValidatePolicy(&input); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	res := s.Engine.RunIllustration(&input)
	writeJSON(ctx, fasthttp.StatusOK, res)
}

func (s *Server) handleSolve(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "POST required")
		return
	}

	var req solver.SolveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := s.parser.ValidateSolveRequest(&req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	result, err := s.Solver.Solve(context.Background(), req)
	if err != nil {
		var solverErr *solver.SolverError
		if errors.As(err, &solverErr) {
			writeError(ctx, fasthttp.StatusBadRequest, solverErr.Error())
			return
		}
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, ErrorResponse{Status: status, Message: message})
}
