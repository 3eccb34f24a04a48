package model

// Category is the emotion label published with a set of metrics.
type Category string

// Emotion categories.
const (
	CategoryCalm      Category = "calm"
	CategoryStressed  Category = "stressed"
	CategoryFocused   Category = "focused"
	CategoryExcited   Category = "excited"
	CategoryFatigued  Category = "fatigued"
	CategoryAnxious   Category = "anxious"
	CategoryRuleBased Category = "rule_based"
	CategoryUnknown   Category = "unknown"
	CategoryError     Category = "error"
)

// classifierCategories maps classifier output ids to categories.
var classifierCategories = [...]Category{
	CategoryCalm,
	CategoryStressed,
	CategoryFocused,
	CategoryExcited,
	CategoryFatigued,
	CategoryAnxious,
}

// ClassifierCategoryCount is the number of categories a classifier may emit.
const ClassifierCategoryCount = len(classifierCategories)

// CategoryFromID maps a classifier id to its category; unknown ids map to CategoryUnknown.
func CategoryFromID(id int) Category {
	if id < 0 || id >= len(classifierCategories) {
		return CategoryUnknown
	}
	return classifierCategories[id]
}

// CategoryID is the inverse of CategoryFromID. ok is false for categories
// that no classifier emits.
func CategoryID(c Category) (int, bool) {
	for i, cc := range classifierCategories {
		if cc == c {
			return i, true
		}
	}
	return 0, false
}

// AnomalyReport is the anti-spoofing verdict for one snapshot.
type AnomalyReport struct {
	HasAnomaly   bool     `json:"has_anomaly"`
	AnomalyScore float64  `json:"anomaly_score"`
	AnomalyTypes []string `json:"anomaly_types"`
	Confidence   float64  `json:"confidence"`
}

// EmotionMetrics is the scorer output.
type EmotionMetrics struct {
	Stress       int      `json:"stress"`
	Energy       int      `json:"energy"`
	Focus        int      `json:"focus"`
	Authenticity int      `json:"authenticity"`
	Confidence   float64  `json:"confidence"`
	Category     Category `json:"emotion_category"`
}

// ReadinessDecision is the gate output.
type ReadinessDecision struct {
	ConsensusReady bool           `json:"consensus_ready"`
	ReadinessScore int            `json:"readiness_score"`
	Recommendation string         `json:"recommendation"`
	Metrics        EmotionMetrics `json:"emotional_metrics"`
}
