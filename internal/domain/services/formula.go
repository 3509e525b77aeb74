package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/linkflow-ai/mathnodes/internal/domain/models"
	"github.com/linkflow-ai/mathnodes/internal/domain/repositories"
	"github.com/linkflow-ai/mathnodes/internal/formula"
	"github.com/linkflow-ai/mathnodes/internal/pkg/metrics"
	"github.com/linkflow-ai/mathnodes/internal/pkg/queue"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/linkflow-ai/mathnodes/internal/worker/core"
	"github.com/rs/zerolog/log"
)

// Formula errors
var (
	ErrUnavailable         = errors.New("backend not configured")
	ErrFormulaNotFound     = errors.New("formula not found")
	ErrFormulaNameRequired = errors.New("formula name is required")
	ErrFormulaNameTaken    = errors.New("formula name already exists")
	ErrEvaluationNotFound  = errors.New("evaluation not found")
)

// ResultCache stores results and async evaluation records.
type ResultCache interface {
	Get(ctx context.Context, key string) (float64, bool)
	Set(ctx context.Context, key string, result float64) error
	SaveEvaluation(ctx context.Context, eval *cache.Evaluation) error
	GetEvaluation(ctx context.Context, id uuid.UUID) (*cache.Evaluation, error)
}

// FormulaRepository persists the saved formula library.
type FormulaRepository interface {
	Create(ctx context.Context, f *models.Formula) error
	Update(ctx context.Context, f *models.Formula) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Formula, error)
	FindByName(ctx context.Context, name string) (*models.Formula, error)
	FindAll(ctx context.Context, opts *repositories.ListOptions) ([]models.Formula, int64, error)
	RecordEvaluation(ctx context.Context, id uuid.UUID) error
}

// TaskEnqueuer submits async evaluations.
type TaskEnqueuer interface {
	EnqueueFormulaEvaluation(ctx context.Context, payload queue.FormulaEvaluationPayload) (*asynq.TaskInfo, error)
}

// Metric sources
const (
	SourceDirect = "direct"
	SourceSaved  = "saved"

	// StatusCached labels evaluations answered from the result cache.
	StatusCached = "cached"
)

type FormulaService struct {
	cache    ResultCache
	repo     FormulaRepository
	enqueuer TaskEnqueuer
}

// NewFormulaService creates a service that evaluates in process. Caching, the
// saved library and async evaluation are enabled by the Set* methods.
func NewFormulaService() *FormulaService {
	return &FormulaService{}
}

// SetCache sets the result cache (optional dependency)
func (s *FormulaService) SetCache(c ResultCache) {
	s.cache = c
}

// SetRepository sets the saved formula repository (optional dependency)
func (s *FormulaService) SetRepository(repo FormulaRepository) {
	s.repo = repo
}

// SetEnqueuer sets the task queue client (optional dependency)
func (s *FormulaService) SetEnqueuer(e TaskEnqueuer) {
	s.enqueuer = e
}

// Capabilities reports which optional backends are wired.
func (s *FormulaService) Capabilities() map[string]bool {
	return map[string]bool{
		"cache":   s.cache != nil,
		"library": s.repo != nil,
		"async":   s.cache != nil && s.enqueuer != nil,
	}
}

// EvaluationResult is the outcome of a synchronous evaluation.
type EvaluationResult struct {
	Formula   string
	Result    float64
	Variables []string
	Cached    bool
	Duration  time.Duration
}

// Evaluate compiles and runs a formula. values are coerced to numbers; only
// the variables the formula references take part in the cache key.
func (s *FormulaService) Evaluate(ctx context.Context, src string, values map[string]interface{}) (*EvaluationResult, error) {
	return s.evaluate(ctx, SourceDirect, src, values)
}

func (s *FormulaService) evaluate(ctx context.Context, source, src string, values map[string]interface{}) (*EvaluationResult, error) {
	start := time.Now()

	vars, err := formula.ToBindings(values)
	if err != nil {
		metrics.RecordFormulaEvaluation(source, statusOf(err), 0)
		return nil, err
	}

	prog, err := formula.Compile(src)
	if err != nil {
		metrics.RecordFormulaEvaluation(source, statusOf(err), 0)
		return nil, err
	}

	used := usedBindings(prog, vars)
	res := &EvaluationResult{Formula: src, Variables: prog.Variables()}

	var key string
	if s.cache != nil {
		key = cache.ResultKey(src, used)
		if v, ok := s.cache.Get(ctx, key); ok {
			metrics.RecordCacheLookup(true)
			res.Result = v
			res.Cached = true
			res.Duration = time.Since(start)
			metrics.RecordFormulaEvaluation(source, StatusCached, res.Duration.Seconds())
			return res, nil
		}
		metrics.RecordCacheLookup(false)
	}

	v, err := prog.Eval(used)
	res.Duration = time.Since(start)
	metrics.RecordFormulaEvaluation(source, statusOf(err), res.Duration.Seconds())
	if err != nil {
		return nil, err
	}
	res.Result = v

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, v); err != nil {
			log.Warn().Err(err).Str("formula", src).Msg("Failed to cache formula result")
		}
	}

	return res, nil
}

// Tokenize returns the token texts of a formula.
func (s *FormulaService) Tokenize(src string) ([]string, error) {
	return formula.Tokenize(src)
}

// Compile exposes the postfix form of a formula.
func (s *FormulaService) Compile(src string) (*formula.Program, error) {
	return formula.Compile(src)
}

// Functions lists the function registry.
func (s *FormulaService) Functions() []formula.Function {
	return formula.Functions()
}

// EnqueueEvaluation validates a formula and schedules it on the worker queue.
// The returned record is pending; poll GetEvaluation for the outcome.
func (s *FormulaService) EnqueueEvaluation(ctx context.Context, src string, values map[string]interface{}) (*cache.Evaluation, error) {
	if s.cache == nil || s.enqueuer == nil {
		return nil, fmt.Errorf("%w: async evaluation needs redis", ErrUnavailable)
	}

	vars, err := formula.ToBindings(values)
	if err != nil {
		return nil, err
	}
	prog, err := formula.Compile(src)
	if err != nil {
		return nil, err
	}

	eval := cache.NewEvaluation(src, usedBindings(prog, vars))
	if err := s.cache.SaveEvaluation(ctx, eval); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	_, err = s.enqueuer.EnqueueFormulaEvaluation(ctx, queue.FormulaEvaluationPayload{
		EvaluationID: eval.ID,
		Formula:      eval.Formula,
		Variables:    eval.Variables,
	})
	if err != nil {
		eval.Fail(err)
		if saveErr := s.cache.SaveEvaluation(ctx, eval); saveErr != nil {
			log.Error().Err(saveErr).Str("evaluation_id", eval.ID.String()).Msg("Failed to mark evaluation failed")
		}
		return nil, fmt.Errorf("failed to enqueue evaluation: %w", err)
	}
	metrics.RecordTaskEnqueued(queue.TypeFormulaEvaluation)

	log.Info().
		Str("evaluation_id", eval.ID.String()).
		Str("formula", src).
		Msg("Formula evaluation enqueued")

	return eval, nil
}

// GetEvaluation returns an async evaluation record.
func (s *FormulaService) GetEvaluation(ctx context.Context, id uuid.UUID) (*cache.Evaluation, error) {
	if s.cache == nil {
		return nil, fmt.Errorf("%w: async evaluation needs redis", ErrUnavailable)
	}

	eval, err := s.cache.GetEvaluation(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrEvaluationNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return eval, nil
}

type CreateFormulaInput struct {
	Name        string
	Description *string
	Expression  string
	Defaults    map[string]interface{}
}

// CreateFormula validates and saves a formula to the library.
func (s *FormulaService) CreateFormula(ctx context.Context, input CreateFormulaInput) (*models.Formula, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: formula library needs a database", ErrUnavailable)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFormulaNameRequired
	}
	defaults, err := validateFormula(input.Expression, input.Defaults)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrFormulaNameTaken, name)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check formula name: %w", err)
	}

	f := &models.Formula{
		ID:          uuid.New(),
		Name:        name,
		Description: input.Description,
		Expression:  input.Expression,
		Defaults:    defaults,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to create formula: %w", err)
	}

	log.Info().
		Str("formula_id", f.ID.String()).
		Str("name", f.Name).
		Msg("Formula created")

	return f, nil
}

type UpdateFormulaInput struct {
	Name        *string
	Description *string
	Expression  *string
	Defaults    map[string]interface{}
}

// UpdateFormula changes the given fields. A nil Defaults keeps the stored ones.
func (s *FormulaService) UpdateFormula(ctx context.Context, id uuid.UUID, input UpdateFormulaInput) (*models.Formula, error) {
	f, err := s.GetFormula(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrFormulaNameRequired
		}
		if name != f.Name {
			if _, err := s.repo.FindByName(ctx, name); err == nil {
				return nil, fmt.Errorf("%w: %s", ErrFormulaNameTaken, name)
			} else if !errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("failed to check formula name: %w", err)
			}
		}
		f.Name = name
	}
	if input.Description != nil {
		f.Description = input.Description
	}
	if input.Expression != nil {
		f.Expression = *input.Expression
	}
	defaults := f.DefaultValues()
	if input.Defaults != nil {
		defaults = input.Defaults
	}

	validated, err := validateFormula(f.Expression, defaults)
	if err != nil {
		return nil, err
	}
	f.Defaults = validated

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to update formula: %w", err)
	}
	return f, nil
}

// DeleteFormula removes a saved formula.
func (s *FormulaService) DeleteFormula(ctx context.Context, id uuid.UUID) error {
	if s.repo == nil {
		return fmt.Errorf("%w: formula library needs a database", ErrUnavailable)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFormulaNotFound, id)
		}
		return fmt.Errorf("failed to delete formula: %w", err)
	}
	return nil
}

// GetFormula returns a saved formula by id.
func (s *FormulaService) GetFormula(ctx context.Context, id uuid.UUID) (*models.Formula, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: formula library needs a database", ErrUnavailable)
	}
	f, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFormulaNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// ListFormulas pages through the library.
func (s *FormulaService) ListFormulas(ctx context.Context, opts *repositories.ListOptions) ([]models.Formula, int64, error) {
	if s.repo == nil {
		return nil, 0, fmt.Errorf("%w: formula library needs a database", ErrUnavailable)
	}
	return s.repo.FindAll(ctx, opts)
}

// EvaluateSaved evaluates a saved formula. values override its defaults.
func (s *FormulaService) EvaluateSaved(ctx context.Context, id uuid.UUID, values map[string]interface{}) (*EvaluationResult, error) {
	f, err := s.GetFormula(ctx, id)
	if err != nil {
		return nil, err
	}

	res, err := s.evaluate(ctx, SourceSaved, f.Expression, core.MergeMap(f.DefaultValues(), values))
	if err != nil {
		return nil, err
	}

	if err := s.repo.RecordEvaluation(ctx, f.ID); err != nil {
		log.Warn().Err(err).Str("formula_id", f.ID.String()).Msg("Failed to record formula usage")
	}
	return res, nil
}

// validateFormula compiles the expression and checks the defaults coerce.
func validateFormula(expression string, defaults map[string]interface{}) (models.JSON, error) {
	if _, err := formula.Compile(expression); err != nil {
		return nil, err
	}
	vars, err := formula.ToBindings(defaults)
	if err != nil {
		return nil, err
	}

	out := make(models.JSON, len(vars))
	for k, v := range vars {
		out[k] = v
	}
	return out, nil
}

func usedBindings(prog *formula.Program, vars formula.Bindings) formula.Bindings {
	used := make(formula.Bindings)
	for _, name := range prog.Variables() {
		if v, ok := vars[name]; ok {
			used[name] = v
		}
	}
	return used
}

func statusOf(err error) string {
	if err == nil {
		return "success"
	}
	if kind := formula.KindOf(err); kind != 0 {
		return kind.String()
	}
	return "error"
}
