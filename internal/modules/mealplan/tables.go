package mealplan

// Fixed lookup tables, loaded once. These mirror the hand-curated
// clinical vocabulary of the knowledge base.

// symptomKeywords maps a symptom tag to the nutritional keyword used in
// retrieval queries.
var symptomKeywords = map[string]string{
	"acne":             "anti-inflammatory",
	"hair-loss":        "iron-rich zinc-rich",
	"hirsutism":        "anti-androgenic spearmint",
	"weight-gain":      "low-calorie high-satiety",
	"fatigue":          "iron-rich vitamin-b12",
	"irregular-cycles": "hormone-balancing",
	"mood-swings":      "omega-3 magnesium-rich",
	"sugar-cravings":   "blood-sugar-stabilizing",
	"bloating":         "gut-friendly low-fodmap",
	"insulin-spikes":   "low-glycemic",
	"sleep-issues":     "magnesium-rich tryptophan",
}

// labDisplayNames maps lab-test keys from the medical-report store to the
// human-readable names used in lab-guidance queries.
var labDisplayNames = map[string]string{
	"fasting_insulin":   "Fasting Insulin",
	"fasting_glucose":   "Fasting Glucose",
	"hba1c":             "HbA1c",
	"homa_ir":           "HOMA-IR",
	"testosterone":      "Total Testosterone",
	"free_testosterone": "Free Testosterone",
	"dheas":             "DHEA-S",
	"lh":                "LH",
	"fsh":               "FSH",
	"lh_fsh_ratio":      "LH:FSH Ratio",
	"amh":               "AMH",
	"prolactin":         "Prolactin",
	"tsh":               "TSH",
	"vitamin_d":         "Vitamin D",
	"vitamin_b12":       "Vitamin B12",
	"ferritin":          "Ferritin",
	"total_cholesterol": "Total Cholesterol",
	"ldl":               "LDL Cholesterol",
	"hdl":               "HDL Cholesterol",
	"triglycerides":     "Triglycerides",
	"crp":               "CRP",
}

func labDisplayName(key string) string {
	if name, ok := labDisplayNames[key]; ok {
		return name
	}
	return key
}
