package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// User profile
	DietType         string
	RestrictionLines string // pre-rendered "- avoid X" lines
	DailyBudget      string
	Duration         int
	MealsPerDay      int

	// Nutrition targets
	TargetCalories int

	// Assembled retrieval context
	ContextBlock string

	// Cuisine handling
	CuisineCSV        string
	CuisineRules      string // pre-rendered multi-cuisine distribution block
	ExcludedCuisines  string // comma-separated cuisines to avoid
	Region            string

	// Output contract
	JSONExample string

	// Chat
	Message       string
	GuidanceBlock string
}
