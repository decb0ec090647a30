package server

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/krishadi/ulgo/internal/calculation"
	"github.com/krishadi/ulgo/internal/domain"
	"github.com/krishadi/ulgo/internal/solver"
)

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *fasthttp.RequestCtx {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(path)
	ctx.Request.Header.SetMethod(method)
	if body != nil {
		ctx.Request.SetBody(body)
	}
	s.Handle(ctx)
	return ctx
}

func TestServer_Health(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	ctx := doRequest(t, s, fasthttp.MethodGet, "/healthz", nil)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
}

func TestServer_NotFound(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	ctx := doRequest(t, s, fasthttp.MethodGet, "/nope", nil)

	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestServer_Illustrate(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	body, err := json.Marshal(map[string]any{
		"entry_age":           30,
		"gender":              "male",
		"paying_term_years":   69,
		"initial_frequency":   "annual",
		"initial_sum_assured": "500000",
		"annual_rpp":          "100000",
		"annual_rtu":          "0",
		"annual_return_rate":  "0.05",
	})
	require.NoError(t, err)

	ctx := doRequest(t, s, fasthttp.MethodPost, "/illustrate", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var res domain.IllustrationResult
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &res))
	assert.Equal(t, domain.StatusCompleted, res.Status)
	assert.Len(t, res.Annual, 69)
	assert.NotEmpty(t, res.Monthly)
}

func TestServer_IllustrateRejectsGet(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	ctx := doRequest(t, s, fasthttp.MethodGet, "/illustrate", nil)

	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestServer_IllustrateBadBody(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	ctx := doRequest(t, s, fasthttp.MethodPost, "/illustrate", []byte("{not json"))

	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, fasthttp.StatusBadRequest, resp.Status)
	assert.Contains(t, resp.Message, "invalid request body")
}

func TestServer_IllustrateValidation(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	body, err := json.Marshal(map[string]any{
		"entry_age":         30,
		"gender":            "unknown",
		"paying_term_years": 69,
	})
	require.NoError(t, err)

	ctx := doRequest(t, s, fasthttp.MethodPost, "/illustrate", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Contains(t, resp.Message, "gender")
}

func TestServer_Solve(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	body, err := json.Marshal(map[string]any{
		"entry_age":          30,
		"gender":             "male",
		"paying_term_years":  30,
		"annual_return_rate": "0.05",
		"rpp_ratio":          "1",
		"sum_assured":        "10000000",
		"obligations": []map[string]any{
			{"basis": "age", "from": 60, "to": 80, "amount": "25000000"},
		},
	})
	require.NoError(t, err)

	ctx := doRequest(t, s, fasthttp.MethodPost, "/solve", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var result solver.Result
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &result))
	assert.True(t, result.Feasible)
	assert.True(t, result.SolvencyConfirmed)
	assert.True(t, result.TotalPremium.IsPositive())
}

func TestServer_SolveValidation(t *testing.T) {
	s := New(calculation.NewCalculationEngine())
	body, err := json.Marshal(map[string]any{
		"entry_age":          30,
		"gender":             "male",
		"paying_term_years":  30,
		"annual_return_rate": "0.05",
		"rpp_ratio":          "1",
	})
	require.NoError(t, err)

	ctx := doRequest(t, s, fasthttp.MethodPost, "/solve", body)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Contains(t, resp.Message, "obligation")
}
