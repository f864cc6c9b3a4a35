package api

import "time"

// User is the account the current credential belongs to.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	IsAnonymous bool   `json:"isAnonymous"`
	// DailyGoal is the daily sugar budget in grams.
	DailyGoal float64 `json:"dailyGoal,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
}

// ProfileUpdate is a partial update; nil fields are left unchanged.
type ProfileUpdate struct {
	Name      *string  `json:"name,omitempty"`
	DailyGoal *float64 `json:"dailyGoal,omitempty"`
	Timezone  *string  `json:"timezone,omitempty"`
}

type DailyStatus struct {
	Date           string     `json:"date"`
	TotalGrams     float64    `json:"totalGrams"`
	GoalGrams      float64    `json:"goalGrams"`
	RemainingGrams float64    `json:"remainingGrams"`
	LogsCount      int        `json:"logsCount"`
	Streak         int        `json:"streak"`
	PendingActions []LogEntry `json:"pendingActions,omitempty"`
}

// SugarLog is one intake event sent to POST /logs/sugar.
type SugarLog struct {
	Grams    float64        `json:"grams"`
	Food     string         `json:"food,omitempty"`
	Note     string         `json:"note,omitempty"`
	LoggedAt time.Time      `json:"loggedAt"`
	Extra    map[string]any `json:"extra,omitempty"`
}

type LogEntry struct {
	ID          string     `json:"id"`
	Grams       float64    `json:"grams"`
	Food        string     `json:"food,omitempty"`
	Note        string     `json:"note,omitempty"`
	LoggedAt    time.Time  `json:"loggedAt"`
	Action      string     `json:"action,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Completed reports whether the suggested action was marked done.
func (e LogEntry) Completed() bool { return e.CompletedAt != nil }

type HealthSample struct {
	Type      string    `json:"type"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit,omitempty"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// HealthSync is the payload of POST /health/sync.
type HealthSync struct {
	Source  string         `json:"source"`
	Samples []HealthSample `json:"samples"`
}

type SyncResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
