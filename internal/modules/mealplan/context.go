package mealplan

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

// Section labels keep the four knowledge sources distinguishable inside
// the prompt and in manual review.
const (
	labelMealTemplates    = "=== REGIONAL MEAL TEMPLATES ==="
	labelNutritionGuides  = "=== NUTRITION GUIDELINES ==="
	labelLabGuidance      = "=== LAB-SPECIFIC GUIDANCE ==="
	labelSymptomGuidance  = "=== SYMPTOM RECOMMENDATIONS ==="
)

// fallbackGuidance keeps the prompt from ever being context-free.
const fallbackGuidance = `General PCOS nutrition guidance: favor low glycemic index whole grains (millets, steel-cut oats, brown rice), ` +
	`pair carbohydrates with protein or fat to blunt glucose spikes, include 25-30 g fiber daily from vegetables and legumes, ` +
	`prefer anti-inflammatory fats (nuts, seeds, cold-pressed oils), and keep added sugar and refined flour minimal.`

// assembledContext is the outcome of the four retrieval passes.
type assembledContext struct {
	Block string

	MealTemplates          int
	NutritionGuidelines    int
	LabGuidance            int
	SymptomRecommendations int
}

func (a assembledContext) totalDocuments() int {
	return a.MealTemplates + a.NutritionGuidelines + a.LabGuidance + a.SymptomRecommendations
}

// assembleContext builds the retrieval queries from preferences and health
// context and concatenates the labeled results. Retrieval errors propagate;
// the generator's outer wrapper owns failure containment.
func (g *Generator) assembleContext(ctx context.Context, prefs domain.UserPreferences, health *domain.HealthContext) (assembledContext, error) {
	var out assembledContext

	templateQ := buildTemplateQuery(prefs, health)
	guidelineQ := buildGuidelineQuery(health)
	labQ := buildLabQuery(health)
	symptomQ := buildSymptomQuery(health)

	var templateDocs, guidelineDocs, labDocs, symptomDocs []domain.RetrievedDocument

	// The four passes are independent; MaxParallelQueries=1 keeps them
	// sequential.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.MaxParallelQueries)

	eg.Go(func() (err error) {
		templateDocs, err = g.retriever.Retrieve(egCtx, templateQ, g.cfg.TemplateTopK)
		return err
	})
	eg.Go(func() (err error) {
		guidelineDocs, err = g.retriever.Retrieve(egCtx, guidelineQ, g.cfg.GuidelineTopK)
		return err
	})
	if labQ != "" {
		eg.Go(func() (err error) {
			labDocs, err = g.retriever.Retrieve(egCtx, labQ, g.cfg.LabTopK)
			return err
		})
	}
	if symptomQ != "" {
		eg.Go(func() (err error) {
			symptomDocs, err = g.retriever.Retrieve(egCtx, symptomQ, g.cfg.SymptomTopK)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return out, err
	}

	out.MealTemplates = len(templateDocs)
	out.NutritionGuidelines = len(guidelineDocs)
	out.LabGuidance = len(labDocs)
	out.SymptomRecommendations = len(symptomDocs)

	sections := make([]string, 0, 4)
	appendSection := func(label string, docs []domain.RetrievedDocument) {
		text := FormatContext(docs)
		if text == "" {
			return
		}
		sections = append(sections, label+"\n"+text)
	}
	appendSection(labelMealTemplates, templateDocs)
	appendSection(labelNutritionGuides, guidelineDocs)
	appendSection(labelLabGuidance, labDocs)
	appendSection(labelSymptomGuidance, symptomDocs)

	if len(sections) == 0 {
		out.Block = fallbackGuidance
		return out, nil
	}
	out.Block = strings.Join(sections, "\n\n")
	return out, nil
}

func buildTemplateQuery(prefs domain.UserPreferences, health *domain.HealthContext) string {
	parts := make([]string, 0, 6)

	if len(prefs.Cuisines) > 0 {
		parts = append(parts, strings.Join(prefs.Cuisines, " OR "))
	} else if strings.TrimSpace(prefs.Region) != "" {
		parts = append(parts, prefs.Region)
	}
	if prefs.DietType != "" {
		parts = append(parts, string(prefs.DietType))
	}
	parts = append(parts, "PCOS-friendly", "low-glycemic")

	if health != nil {
		for _, s := range health.Symptoms {
			if kw, ok := symptomKeywords[strings.ToLower(strings.TrimSpace(s))]; ok {
				parts = append(parts, kw)
			}
		}
	}
	return strings.Join(parts, " ")
}

func buildGuidelineQuery(health *domain.HealthContext) string {
	parts := make([]string, 0, 4)
	if health != nil {
		if len(health.Symptoms) > 0 {
			parts = append(parts, strings.Join(health.Symptoms, " "))
		}
		if len(health.Goals) > 0 {
			parts = append(parts, strings.Join(health.Goals, " "))
		}
	}
	parts = append(parts, "PCOS nutrition guidelines macronutrient balance")
	return strings.Join(parts, " ")
}

// buildLabQuery returns "" when there are no abnormal labs; no lab-guidance
// text is ever injected for normal results.
func buildLabQuery(health *domain.HealthContext) string {
	if health == nil || health.MedicalData == nil || len(health.MedicalData.LabValues) == 0 {
		return ""
	}
	keys := make([]string, 0, len(health.MedicalData.LabValues))
	for key := range health.MedicalData.LabValues {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		lab := health.MedicalData.LabValues[key]
		if !lab.Severity.Abnormal() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s", labDisplayName(key), lab.Severity))
	}
	if len(parts) == 0 {
		return ""
	}
	return "dietary guidance for " + strings.Join(parts, ", ")
}

func buildSymptomQuery(health *domain.HealthContext) string {
	if health == nil || len(health.Symptoms) == 0 {
		return ""
	}
	return "managing PCOS symptoms " + strings.Join(health.Symptoms, " ") + " through diet"
}
