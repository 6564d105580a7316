package mealplan

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
)

type dayWindow struct {
	start int // 0-based offset into the full plan
	size  int
}

func splitWindows(duration, chunkSize int) []dayWindow {
	windows := make([]dayWindow, 0, (duration+chunkSize-1)/chunkSize)
	for start := 0; start < duration; start += chunkSize {
		size := chunkSize
		if start+size > duration {
			size = duration - start
		}
		windows = append(windows, dayWindow{start: start, size: size})
	}
	return windows
}

type windowResult struct {
	days []domain.Day
	meta domain.RagMetadata
}

// generateChunked runs the single-pass pipeline per fixed-size day window
// and concatenates the results. A window failure is contained: that
// window's days come from the static fallback, the rest are preserved.
func (g *Generator) generateChunked(ctx context.Context, prefs domain.UserPreferences, health *domain.HealthContext) ([]domain.Day, domain.RagMetadata) {
	windows := splitWindows(prefs.Duration, g.cfg.ChunkSize)
	results := make([]windowResult, len(windows))

	if g.cfg.MaxParallelChunks <= 1 {
		// Sequential with optional spacing to respect LLM rate limits.
		for i, w := range windows {
			if i > 0 && g.cfg.InterChunkDelay > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(g.cfg.InterChunkDelay):
				}
			}
			results[i] = g.generateWindow(ctx, prefs, health, w)
		}
	} else {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(g.cfg.MaxParallelChunks)
		for i, w := range windows {
			i, w := i, w
			eg.Go(func() error {
				results[i] = g.generateWindow(egCtx, prefs, health, w)
				return nil
			})
		}
		// Window failures never surface as errors.
		_ = eg.Wait()
	}

	days := make([]domain.Day, 0, prefs.Duration)
	meta := domain.RagMetadata{CuisinesUsed: prefs.Cuisines}
	for _, r := range results {
		days = append(days, r.days...)
		meta.MealTemplatesUsed += r.meta.MealTemplatesUsed
		meta.NutritionGuidelinesUsed += r.meta.NutritionGuidelinesUsed
		meta.LabGuidanceUsed += r.meta.LabGuidanceUsed
		meta.SymptomRecommendationsUsed += r.meta.SymptomRecommendationsUsed
		if r.meta.UsedFallback {
			meta.UsedFallback = true
		}
	}
	total := meta.MealTemplatesUsed + meta.NutritionGuidelinesUsed + meta.LabGuidanceUsed + meta.SymptomRecommendationsUsed
	meta.RetrievalQuality = qualityBand(total)

	// Day numbers are made contiguous across windows.
	renumberDays(days)
	return days, meta
}

func (g *Generator) generateWindow(ctx context.Context, prefs domain.UserPreferences, health *domain.HealthContext, w dayWindow) windowResult {
	wPrefs := prefs
	wPrefs.Duration = w.size

	days, meta, err := g.singlePass(ctx, wPrefs, health)
	if err != nil {
		g.log.Warn("window generation failed; substituting fallback days",
			"error", err.Error(),
			"window_start", w.start+1,
			"window_size", w.size,
		)
		return windowResult{
			days: buildFallbackDays(wPrefs, g.cfg),
			meta: fallbackMetadata(wPrefs),
		}
	}
	return windowResult{days: days, meta: meta}
}
