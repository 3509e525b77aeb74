package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/linkflow-ai/mathnodes/internal/api/dto"
	"github.com/linkflow-ai/mathnodes/internal/domain/models"
	"github.com/linkflow-ai/mathnodes/internal/domain/repositories"
	"github.com/linkflow-ai/mathnodes/internal/domain/services"
	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/pkg/validator"
	"github.com/rs/zerolog/log"
)

type FormulaHandler struct {
	formulaSvc *services.FormulaService
}

func NewFormulaHandler(formulaSvc *services.FormulaService) *FormulaHandler {
	return &FormulaHandler{formulaSvc: formulaSvc}
}

// Evaluate runs a formula synchronously.
func (h *FormulaHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.formulaSvc.Evaluate(r.Context(), req.Formula, req.Variables)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, toEvaluationResponse(res))
}

// Tokenize returns the display tokens and the compiled postfix form.
func (h *FormulaHandler) Tokenize(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenizeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tokens, err := h.formulaSvc.Tokenize(req.Formula)
	if err != nil {
		handleError(w, r, err)
		return
	}
	prog, err := h.formulaSvc.Compile(req.Formula)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, dto.TokenizeResponse{
		Formula:   req.Formula,
		Tokens:    tokens,
		Postfix:   prog.Postfix(),
		Variables: nonNil(prog.Variables()),
	})
}

// EvaluateAsync queues an evaluation and returns its pending record.
func (h *FormulaHandler) EvaluateAsync(w http.ResponseWriter, r *http.Request) {
	var req dto.EvaluateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	eval, err := h.formulaSvc.EnqueueEvaluation(r.Context(), req.Formula, req.Variables)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/formulas/evaluations/"+eval.ID.String())
	dto.Accepted(w, eval)
}

// GetEvaluation returns an async evaluation record.
func (h *FormulaHandler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "evaluationID", "evaluation")
	if !ok {
		return
	}

	eval, err := h.formulaSvc.GetEvaluation(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, eval)
}

// Functions lists the callable functions and constants.
func (h *FormulaHandler) Functions(w http.ResponseWriter, r *http.Request) {
	functions := h.formulaSvc.Functions()

	response := make([]dto.FunctionResponse, len(functions))
	for i, f := range functions {
		response[i] = dto.FunctionResponse{
			Name:     f.Name,
			Arity:    f.Arity,
			Constant: f.IsConstant(),
			Usage:    usage(f),
		}
	}

	dto.OK(w, response)
}

func (h *FormulaHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	opts := repositories.NewListOptions(page, perPage)

	formulas, total, err := h.formulaSvc.ListFormulas(r.Context(), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}

	response := make([]dto.FormulaResponse, len(formulas))
	for i := range formulas {
		response[i] = toFormulaResponse(&formulas[i])
	}

	dto.JSONWithMeta(w, http.StatusOK, response, dto.NewMeta(opts.Page(), opts.Limit, total))
}

func (h *FormulaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFormulaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	f, err := h.formulaSvc.CreateFormula(r.Context(), services.CreateFormulaInput{
		Name:        validator.Sanitize(req.Name),
		Description: validator.SanitizeOptional(req.Description),
		Expression:  strings.TrimSpace(req.Expression),
		Defaults:    req.Defaults,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.Created(w, toFormulaResponse(f))
}

func (h *FormulaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "formulaID", "formula")
	if !ok {
		return
	}

	f, err := h.formulaSvc.GetFormula(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, toFormulaResponse(f))
}

func (h *FormulaHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "formulaID", "formula")
	if !ok {
		return
	}

	var req dto.UpdateFormulaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	input := services.UpdateFormulaInput{Defaults: req.Defaults}
	if req.Name != nil {
		name := validator.Sanitize(*req.Name)
		input.Name = &name
	}
	if req.Description != nil {
		desc := validator.SanitizeText(*req.Description)
		input.Description = &desc
	}
	if req.Expression != nil {
		expr := strings.TrimSpace(*req.Expression)
		input.Expression = &expr
	}

	f, err := h.formulaSvc.UpdateFormula(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, toFormulaResponse(f))
}

func (h *FormulaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "formulaID", "formula")
	if !ok {
		return
	}

	if err := h.formulaSvc.DeleteFormula(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	dto.NoContent(w)
}

// EvaluateSaved evaluates a library formula; request variables override its
// stored defaults.
func (h *FormulaHandler) EvaluateSaved(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "formulaID", "formula")
	if !ok {
		return
	}

	var req dto.EvaluateSavedRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	}

	res, err := h.formulaSvc.EvaluateSaved(r.Context(), id, req.Variables)
	if err != nil {
		handleError(w, r, err)
		return
	}

	dto.OK(w, toEvaluationResponse(res))
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		dto.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validator.Validate(req); err != nil {
		dto.ValidationErrorResponse(w, err)
		return false
	}
	return true
}

func parseID(w http.ResponseWriter, r *http.Request, param, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		dto.ErrorResponse(w, http.StatusBadRequest, "invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleError maps service and formula errors to responses.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if dto.FormulaErrorResponse(w, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrFormulaNotFound):
		dto.NotFound(w, "Formula")
	case errors.Is(err, services.ErrEvaluationNotFound):
		dto.NotFound(w, "Evaluation")
	case errors.Is(err, services.ErrFormulaNameTaken):
		dto.Conflict(w, err.Error())
	case errors.Is(err, services.ErrFormulaNameRequired):
		dto.BadRequest(w, err.Error())
	case errors.Is(err, services.ErrUnavailable):
		dto.ServiceUnavailable(w, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		dto.ErrorResponse(w, http.StatusGatewayTimeout, "request timed out")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		dto.InternalServerError(w, "An unexpected error occurred")
	}
}

func toEvaluationResponse(res *services.EvaluationResult) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		Formula:    res.Formula,
		Result:     res.Result,
		Variables:  nonNil(res.Variables),
		Cached:     res.Cached,
		DurationMs: float64(res.Duration.Microseconds()) / 1000,
	}
}

func toFormulaResponse(f *models.Formula) dto.FormulaResponse {
	var variables []string
	if prog, err := formula.Compile(f.Expression); err == nil {
		variables = prog.Variables()
	}

	var lastEvaluatedAt *int64
	if f.LastEvaluatedAt != nil {
		ts := f.LastEvaluatedAt.Unix()
		lastEvaluatedAt = &ts
	}

	return dto.FormulaResponse{
		ID:              f.ID.String(),
		Name:            f.Name,
		Description:     f.Description,
		Expression:      f.Expression,
		Variables:       nonNil(variables),
		Defaults:        f.DefaultValues(),
		EvaluationCount: f.EvaluationCount,
		LastEvaluatedAt: lastEvaluatedAt,
		CreatedAt:       f.CreatedAt.Unix(),
		UpdatedAt:       f.UpdatedAt.Unix(),
	}
}

// usage renders a call example such as atan2(y, x).
func usage(f formula.Function) string {
	params := [][]string{nil, {"x"}, {"x", "y"}}
	if f.Name == "atan2" {
		return "atan2(y, x)"
	}
	if f.Name == "pow" {
		return "pow(base, exp)"
	}
	if f.Arity < len(params) {
		return f.Name + "(" + strings.Join(params[f.Arity], ", ") + ")"
	}
	return f.Name + "(...)"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
