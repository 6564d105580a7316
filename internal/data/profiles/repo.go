package profiles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakhihealth/sakhi-backend/internal/domain"
	pkgerrors "github.com/sakhihealth/sakhi-backend/internal/pkg/errors"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

// Repo is the read-only view of the user/profile store. The generation
// pipeline never writes here; profile and report ingestion belong to the
// surrounding application.
type Repo struct {
	log  *logger.Logger
	pool *pgxpool.Pool
}

func NewRepo(ctx context.Context, log *logger.Logger) (*Repo, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repo{
		log:  log.With("service", "ProfilesRepo"),
		pool: pool,
	}, nil
}

func (r *Repo) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}

// GetPreferences loads the stored meal-plan preferences for a user.
func (r *Repo) GetPreferences(ctx context.Context, userID uuid.UUID) (domain.UserPreferences, error) {
	var (
		prefs        domain.UserPreferences
		cuisines     []string
		restrictions []string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT duration_days, meals_per_day, diet_type, cuisines, restrictions, daily_budget, region
		FROM user_preferences
		WHERE user_id = $1`,
		userID,
	).Scan(&prefs.Duration, &prefs.MealsPerDay, &prefs.DietType, &cuisines, &restrictions, &prefs.DailyBudget, &prefs.Region)
	if errors.Is(err, pgx.ErrNoRows) {
		return prefs, fmt.Errorf("preferences for user: %w", pkgerrors.ErrNotFound)
	}
	if err != nil {
		return prefs, fmt.Errorf("query preferences: %w", err)
	}
	prefs.Cuisines = cuisines
	prefs.Restrictions = restrictions
	return prefs, nil
}

// GetHealthContext loads symptoms, goals, and the latest parsed lab values
// for a user. Missing rows yield a nil context, not an error: health
// context is optional input to generation.
func (r *Repo) GetHealthContext(ctx context.Context, userID uuid.UUID) (*domain.HealthContext, error) {
	var (
		hc      domain.HealthContext
		labJSON []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT symptoms, goals, activity_level, lab_values
		FROM health_profiles
		WHERE user_id = $1`,
		userID,
	).Scan(&hc.Symptoms, &hc.Goals, &hc.ActivityLevel, &labJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query health profile: %w", err)
	}

	if len(labJSON) > 0 {
		labs := map[string]domain.LabValue{}
		if err := json.Unmarshal(labJSON, &labs); err != nil {
			r.log.Warn("health profile lab_values unparseable; ignoring",
				"user_id", userID.String(),
				"error", err.Error(),
			)
		} else if len(labs) > 0 {
			hc.MedicalData = &domain.MedicalData{LabValues: labs}
		}
	}
	return &hc, nil
}
