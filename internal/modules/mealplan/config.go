package mealplan

import (
	"time"

	"github.com/sakhihealth/sakhi-backend/internal/platform/envutil"
)

// Config carries the tunables of the generation pipeline. The tolerance
// band, chunk window, and sequencing of external calls are policy knobs,
// not invariants.
type Config struct {
	// Calorie reconciliation
	TargetCalories   float64
	CalorieTolerance float64
	// When > 0, the tolerance band is TargetCalories * TolerancePercent
	// instead of the absolute CalorieTolerance.
	TolerancePercent float64

	// Chunked generation
	ChunkSize         int
	MaxParallelChunks int
	InterChunkDelay   time.Duration

	// Context assembly
	TemplateTopK  int
	GuidelineTopK int
	LabTopK       int
	SymptomTopK   int
	// 1 runs the four retrieval passes sequentially; raise to
	// parallelize them.
	MaxParallelQueries int

	// LLM call guard; expiry is treated as a parse failure.
	LLMTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		TargetCalories:     2000,
		CalorieTolerance:   200,
		TolerancePercent:   0,
		ChunkSize:          3,
		MaxParallelChunks:  1,
		InterChunkDelay:    0,
		TemplateTopK:       8,
		GuidelineTopK:      5,
		LabTopK:            10,
		SymptomTopK:        3,
		MaxParallelQueries: 1,
		LLMTimeout:         90 * time.Second,
	}
}

// ConfigFromEnv overlays environment tunables on the defaults.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.TargetCalories = envutil.Float("MEALPLAN_TARGET_CALORIES", cfg.TargetCalories)
	cfg.CalorieTolerance = envutil.Float("MEALPLAN_CALORIE_TOLERANCE", cfg.CalorieTolerance)
	cfg.TolerancePercent = envutil.Float("MEALPLAN_TOLERANCE_PERCENT", cfg.TolerancePercent)
	cfg.ChunkSize = envutil.Int("MEALPLAN_CHUNK_SIZE", cfg.ChunkSize)
	cfg.MaxParallelChunks = envutil.Int("MEALPLAN_MAX_PARALLEL_CHUNKS", cfg.MaxParallelChunks)
	cfg.InterChunkDelay = time.Duration(envutil.Int("MEALPLAN_INTER_CHUNK_DELAY_MS", 0)) * time.Millisecond
	cfg.MaxParallelQueries = envutil.Int("MEALPLAN_MAX_PARALLEL_QUERIES", cfg.MaxParallelQueries)
	cfg.LLMTimeout = time.Duration(envutil.Int("MEALPLAN_LLM_TIMEOUT_SECONDS", 90)) * time.Second
	return cfg
}

// toleranceBand resolves the effective band around the calorie target.
func (c Config) toleranceBand() float64 {
	if c.TolerancePercent > 0 {
		return c.TargetCalories * c.TolerancePercent
	}
	if c.CalorieTolerance > 0 {
		return c.CalorieTolerance
	}
	return 200
}

// normalized clamps nonsense values back to defaults so a zero-value
// Config still behaves.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.TargetCalories <= 0 {
		c.TargetCalories = def.TargetCalories
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = def.ChunkSize
	}
	if c.MaxParallelChunks <= 0 {
		c.MaxParallelChunks = def.MaxParallelChunks
	}
	if c.TemplateTopK <= 0 {
		c.TemplateTopK = def.TemplateTopK
	}
	if c.GuidelineTopK <= 0 {
		c.GuidelineTopK = def.GuidelineTopK
	}
	if c.LabTopK <= 0 {
		c.LabTopK = def.LabTopK
	}
	if c.SymptomTopK <= 0 {
		c.SymptomTopK = def.SymptomTopK
	}
	if c.MaxParallelQueries <= 0 {
		c.MaxParallelQueries = def.MaxParallelQueries
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = def.LLMTimeout
	}
	return c
}
