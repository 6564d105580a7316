package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sakhihealth/sakhi-backend/internal/data/profiles"
	"github.com/sakhihealth/sakhi-backend/internal/domain"
	"github.com/sakhihealth/sakhi-backend/internal/modules/mealplan"
	pkgerrors "github.com/sakhihealth/sakhi-backend/internal/pkg/errors"
	"github.com/sakhihealth/sakhi-backend/internal/platform/logger"
)

type MealPlanHandler struct {
	log      *logger.Logger
	gen      *mealplan.Generator
	profiles *profiles.Repo
}

// NewMealPlanHandler wires the generator and the optional profile store.
// A nil profiles repo means requests must carry explicit preferences.
func NewMealPlanHandler(log *logger.Logger, gen *mealplan.Generator, repo *profiles.Repo) *MealPlanHandler {
	return &MealPlanHandler{
		log:      log.With("handler", "MealPlanHandler"),
		gen:      gen,
		profiles: repo,
	}
}

type mealPlanRequest struct {
	UserID      string                  `json:"userId"`
	Preferences *domain.UserPreferences `json:"preferences"`
	Health      *domain.HealthContext   `json:"healthContext"`
}

func (h *MealPlanHandler) Generate(c *gin.Context) {
	var req mealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	prefs := req.Preferences
	health := req.Health

	// Stored profile fills whatever the request leaves out.
	if (prefs == nil || health == nil) && h.profiles != nil && req.UserID != "" {
		userID, err := uuid.Parse(req.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid userId"})
			return
		}
		if prefs == nil {
			stored, err := h.profiles.GetPreferences(c.Request.Context(), userID)
			if err != nil {
				if errors.Is(err, pkgerrors.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "no stored preferences for user"})
					return
				}
				h.log.Error("load preferences failed", "error", err.Error(), "user_id", req.UserID)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "profile store unavailable"})
				return
			}
			prefs = &stored
		}
		if health == nil {
			stored, err := h.profiles.GetHealthContext(c.Request.Context(), userID)
			if err != nil {
				h.log.Warn("load health context failed; generating without it",
					"error", err.Error(), "user_id", req.UserID)
			} else {
				health = stored
			}
		}
	}

	if prefs == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "preferences required"})
		return
	}

	plan, err := h.gen.GenerateMealPlan(c.Request.Context(), *prefs, health)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("meal plan generation failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generation failed"})
		return
	}

	c.JSON(http.StatusOK, plan)
}
