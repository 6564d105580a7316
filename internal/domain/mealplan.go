package domain

import (
	"math"

	"github.com/google/uuid"
)

type DietType string

const (
	DietVegetarian    DietType = "vegetarian"
	DietNonVegetarian DietType = "non-vegetarian"
	DietVegan         DietType = "vegan"
	DietJain          DietType = "jain"
	DietEggetarian    DietType = "eggetarian"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
)

// Severity tags come from the medical-report store. Anything other than
// SeverityNormal counts as abnormal for retrieval gating.
type Severity string

const (
	SeverityNormal         Severity = "normal"
	SeverityElevated       Severity = "elevated"
	SeverityHigh           Severity = "high"
	SeverityLow            Severity = "low"
	SeverityDeficient      Severity = "deficient"
	SeverityCritical       Severity = "critical"
	SeverityPCOSHigh       Severity = "pcos-high"
	SeverityCycleDependent Severity = "cycle-dependent"
)

func (s Severity) Abnormal() bool {
	return s != "" && s != SeverityNormal
}

type LabValue struct {
	Value    float64  `json:"value"`
	Unit     string   `json:"unit"`
	Severity Severity `json:"severity"`
}

type MedicalData struct {
	LabValues map[string]LabValue `json:"labValues,omitempty"`
}

type HealthContext struct {
	Symptoms      []string      `json:"symptoms,omitempty"`
	Goals         []string      `json:"goals,omitempty"`
	ActivityLevel ActivityLevel `json:"activityLevel,omitempty"`
	MedicalData   *MedicalData  `json:"medicalData,omitempty"`
}

// UserPreferences is the immutable input to one generation call.
type UserPreferences struct {
	Duration     int      `json:"duration"`
	MealsPerDay  int      `json:"mealsPerDay"`
	DietType     DietType `json:"dietType"`
	Cuisines     []string `json:"cuisines,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
	DailyBudget  float64  `json:"dailyBudget,omitempty"`
	Region       string   `json:"region,omitempty"`
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

type Ingredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit,omitempty"`
}

type Meal struct {
	Name          string       `json:"name"`
	MealType      MealType     `json:"mealType"`
	Ingredients   []Ingredient `json:"ingredients"`
	Recipe        string       `json:"recipe,omitempty"`
	Protein       float64      `json:"protein"`
	Carbs         float64      `json:"carbs"`
	Fats          float64      `json:"fats"`
	Fiber         float64      `json:"fiber"`
	Calories      float64      `json:"calories"`
	GlycemicIndex string       `json:"gi"`
	PrepTime      string       `json:"time"`
	Tip           string       `json:"tip"`
}

// MacroCalories applies the 4/4/9 kcal-per-gram rule.
func (m Meal) MacroCalories() float64 {
	return math.Round(m.Protein*4 + m.Carbs*4 + m.Fats*9)
}

type Day struct {
	DayNumber     int     `json:"dayNumber"`
	TotalCalories float64 `json:"totalCalories"`
	Meals         []Meal  `json:"meals"`
}

type RetrievalQuality string

const (
	QualityNone      RetrievalQuality = "none"
	QualityLow       RetrievalQuality = "low"
	QualityMedium    RetrievalQuality = "medium"
	QualityHigh      RetrievalQuality = "high"
	QualityExcellent RetrievalQuality = "excellent"
)

// RagMetadata reports which knowledge sources actually contributed to a plan.
// Downstream monitoring keys off UsedFallback since the planner never throws.
type RagMetadata struct {
	MealTemplatesUsed          int              `json:"mealTemplatesUsed"`
	NutritionGuidelinesUsed    int              `json:"nutritionGuidelinesUsed"`
	LabGuidanceUsed            int              `json:"labGuidanceUsed"`
	SymptomRecommendationsUsed int              `json:"symptomRecommendationsUsed"`
	RetrievalQuality           RetrievalQuality `json:"retrievalQuality"`
	CuisinesUsed               []string         `json:"cuisinesUsed"`
	UsedFallback               bool             `json:"usedFallback"`
}

type MealPlan struct {
	ID       uuid.UUID   `json:"id"`
	Days     []Day       `json:"days"`
	Metadata RagMetadata `json:"ragMetadata"`
}

// RetrievedDocument is one scored chunk from the vector store. Ephemeral;
// lives only for the duration of a generation call.
type RetrievedDocument struct {
	Content  string
	Metadata map[string]any
	Score    float64
}
