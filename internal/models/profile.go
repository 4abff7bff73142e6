package models

// ActivityLevel is how much the user moves day to day.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "Sedentary"
	ActivityModerate  ActivityLevel = "Moderate"
	ActivityActive    ActivityLevel = "Active"
)

// HealthGoal is what the user wants their diet to work toward.
type HealthGoal string

const (
	GoalWeightLoss  HealthGoal = "Weight Loss"
	GoalMuscleGain  HealthGoal = "Muscle Gain"
	GoalMaintenance HealthGoal = "Maintenance"
)

// UserProfile holds the onboarding answers used to personalize analysis.
// A nil *UserProfile means "not yet onboarded", which is distinct from a
// profile filled with defaults.
type UserProfile struct {
	ActivityLevel ActivityLevel `json:"activity_level"`
	HealthGoal    HealthGoal    `json:"health_goal"`
	WaterGoal     float64       `json:"water_goal"` // liters per day
	StepGoal      int           `json:"step_goal"`
}

// ValidActivityLevel reports whether s is one of the known activity levels.
func ValidActivityLevel(s ActivityLevel) bool {
	switch s {
	case ActivitySedentary, ActivityModerate, ActivityActive:
		return true
	}
	return false
}

// ValidHealthGoal reports whether s is one of the known health goals.
func ValidHealthGoal(s HealthGoal) bool {
	switch s {
	case GoalWeightLoss, GoalMuscleGain, GoalMaintenance:
		return true
	}
	return false
}

// Identity is the authenticated user as mirrored from the auth provider.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
