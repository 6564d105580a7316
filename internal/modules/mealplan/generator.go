package mealplan

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
	"github.com/sakhihealth/sakhi-backend/internal/modules/mealplan/prompts"
	pkgerrors "github.com/sakhihealth/sakhi-backend/internal/pkg/errors"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

// Generator runs the retrieval-augmented meal-plan pipeline. The public
// entry point never fails under operating conditions: every internal
// failure terminates in the static fallback plan with UsedFallback set.
type Generator struct {
	log       *logger.Logger
	cfg       Config
	retriever Retriever
	llm       LLMClient
}

func NewGenerator(log *logger.Logger, cfg Config, retriever Retriever, llm LLMClient) (*Generator, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retriever == nil {
		return nil, fmt.Errorf("retriever required")
	}
	if llm == nil {
		return nil, fmt.Errorf("llm client required")
	}
	prompts.RegisterAll()
	return &Generator{
		log:       log.With("service", "MealPlanGenerator"),
		cfg:       cfg.normalized(),
		retriever: retriever,
		llm:       llm,
	}, nil
}

// GenerateMealPlan produces a plan for the given preferences and optional
// health context. It errors only on programmer-error inputs; operational
// failures fall back to the static plan.
func (g *Generator) GenerateMealPlan(ctx context.Context, prefs domain.UserPreferences, health *domain.HealthContext) (*domain.MealPlan, error) {
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}
	normalizePreferences(&prefs)

	var (
		days []domain.Day
		meta domain.RagMetadata
	)
	if prefs.Duration > g.cfg.ChunkSize {
		days, meta = g.generateChunked(ctx, prefs, health)
	} else {
		var err error
		days, meta, err = g.singlePass(ctx, prefs, health)
		if err != nil {
			g.log.Warn("meal plan pipeline failed; using static fallback",
				"error", err.Error(),
				"duration", prefs.Duration,
			)
			days = buildFallbackDays(prefs, g.cfg)
			meta = fallbackMetadata(prefs)
		}
	}

	renumberDays(days)
	return &domain.MealPlan{
		ID:       uuid.New(),
		Days:     days,
		Metadata: meta,
	}, nil
}

func validatePreferences(prefs domain.UserPreferences) error {
	if prefs.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", pkgerrors.ErrInvalidArgument, prefs.Duration)
	}
	if prefs.MealsPerDay < 2 || prefs.MealsPerDay > 4 {
		return fmt.Errorf("%w: mealsPerDay must be between 2 and 4, got %d", pkgerrors.ErrInvalidArgument, prefs.MealsPerDay)
	}
	return nil
}

func normalizePreferences(prefs *domain.UserPreferences) {
	seen := map[string]bool{}
	cuisines := make([]string, 0, len(prefs.Cuisines))
	for _, c := range prefs.Cuisines {
		c = strings.TrimSpace(c)
		key := strings.ToLower(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		cuisines = append(cuisines, c)
	}
	prefs.Cuisines = cuisines
}

// singlePass runs retrieve -> prompt -> LLM -> validate/repair -> reconcile
// for one window. A structurally unrecoverable LLM output falls back inside
// this pass; retrieval and LLM transport errors propagate to the caller's
// wrapper.
func (g *Generator) singlePass(ctx context.Context, prefs domain.UserPreferences, health *domain.HealthContext) ([]domain.Day, domain.RagMetadata, error) {
	assembled, err := g.assembleContext(ctx, prefs, health)
	if err != nil {
		return nil, domain.RagMetadata{}, fmt.Errorf("context assembly: %w", err)
	}
	meta := buildMetadata(prefs, assembled, false)

	prompt, err := g.buildPrompt(prefs, assembled.Block)
	if err != nil {
		return nil, domain.RagMetadata{}, fmt.Errorf("prompt build: %w", err)
	}

	raw, err := g.invokeLLM(ctx, prompt)
	if err != nil {
		return nil, domain.RagMetadata{}, fmt.Errorf("llm call: %w", err)
	}

	outcome := parseAndValidate(raw, prefs.Duration, prefs.MealsPerDay)
	if outcome.Status == statusFailed {
		g.log.Warn("LLM output unrecoverable; using static fallback for window",
			"reason", outcome.Reason,
			"duration", prefs.Duration,
		)
		days := buildFallbackDays(prefs, g.cfg)
		meta.UsedFallback = true
		return days, meta, nil
	}
	if outcome.Status == statusRepaired {
		g.log.Info("LLM output repaired", "duration", prefs.Duration)
	}

	days := outcome.Days
	reconcilePlan(days, g.cfg)
	return days, meta, nil
}

func (g *Generator) buildPrompt(prefs domain.UserPreferences, contextBlock string) (prompts.Prompt, error) {
	in := prompts.Input{
		DietType:         string(prefs.DietType),
		RestrictionLines: restrictionLines(prefs.Restrictions),
		DailyBudget:      formatBudget(prefs.DailyBudget),
		Duration:         prefs.Duration,
		MealsPerDay:      prefs.MealsPerDay,
		TargetCalories:   int(g.cfg.TargetCalories),
		ContextBlock:     contextBlock,
		CuisineCSV:       strings.Join(prefs.Cuisines, ", "),
		Region:           prefs.Region,
		JSONExample:      prompts.JSONExample,
	}
	if len(prefs.Cuisines) > 1 {
		in.CuisineRules = prompts.CuisineRules(prefs.Cuisines, prefs.Duration)
		in.ExcludedCuisines = strings.Join(prompts.ExcludedCuisines(prefs.Cuisines), ", ")
	}
	return prompts.Build(prompts.PromptMealPlan, in)
}

// invokeLLM guards the model call with the configured timeout and unwraps
// the completion shape defensively.
func (g *Generator) invokeLLM(ctx context.Context, prompt prompts.Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.LLMTimeout)
	defer cancel()

	resp, err := g.llm.Invoke(callCtx, prompt.System, prompt.User, InvokeOptions{
		JSONMode:   true,
		SchemaName: prompt.SchemaName,
		Schema:     prompt.Schema,
	})
	if err != nil {
		return "", err
	}
	return completionText(resp)
}

func restrictionLines(restrictions []string) string {
	var b strings.Builder
	for _, r := range restrictions {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		fmt.Fprintf(&b, "- avoid %s\n", r)
	}
	return b.String()
}

func formatBudget(budget float64) string {
	if budget <= 0 {
		return "not specified"
	}
	return fmt.Sprintf("INR %.0f", budget)
}

func renumberDays(days []domain.Day) {
	for i := range days {
		days[i].DayNumber = i + 1
	}
}

func buildMetadata(prefs domain.UserPreferences, assembled assembledContext, usedFallback bool) domain.RagMetadata {
	return domain.RagMetadata{
		MealTemplatesUsed:          assembled.MealTemplates,
		NutritionGuidelinesUsed:    assembled.NutritionGuidelines,
		LabGuidanceUsed:            assembled.LabGuidance,
		SymptomRecommendationsUsed: assembled.SymptomRecommendations,
		RetrievalQuality:           qualityBand(assembled.totalDocuments()),
		CuisinesUsed:               prefs.Cuisines,
		UsedFallback:               usedFallback,
	}
}

func fallbackMetadata(prefs domain.UserPreferences) domain.RagMetadata {
	return domain.RagMetadata{
		RetrievalQuality: domain.QualityNone,
		CuisinesUsed:     prefs.Cuisines,
		UsedFallback:     true,
	}
}

func qualityBand(total int) domain.RetrievalQuality {
	switch {
	case total <= 0:
		return domain.QualityNone
	case total < 5:
		return domain.QualityLow
	case total < 10:
		return domain.QualityMedium
	case total < 15:
		return domain.QualityHigh
	default:
		return domain.QualityExcellent
	}
}
