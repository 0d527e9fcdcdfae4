package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
)

// HealthScore represents the database schema for monthly health scores.
// One row per (user, month, year); recomputation overwrites it.
type HealthScore struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID string `gorm:"type:varchar(64);uniqueIndex:idx_health_score_period;not null"`
	Month  int    `gorm:"uniqueIndex:idx_health_score_period;not null"`
	Year   int    `gorm:"uniqueIndex:idx_health_score_period;not null"`

	OverallScore int `gorm:"not null"`

	BudgetAdherence     float64 `gorm:"not null"`
	SavingsRate         float64 `gorm:"not null"`
	SpendingConsistency float64 `gorm:"not null"`
	GoalProgress        float64 `gorm:"not null"`

	Factors         JSONFloatMap   `gorm:"type:jsonb"`
	Recommendations pq.StringArray `gorm:"type:text[]"`
}

// TableName specifies the table name for HealthScore.
func (HealthScore) TableName() string {
	return "health_scores"
}

// JSONFloatMap is a custom type for map[string]float64 stored as JSONB.
type JSONFloatMap map[string]float64

func (j JSONFloatMap) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONFloatMap) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// EtoD converts database entity to domain model.
func (h *HealthScore) EtoD() *healthscore.Score {
	return &healthscore.Score{
		ID:                  h.ID,
		UserID:              h.UserID,
		Month:               h.Month,
		Year:                h.Year,
		OverallScore:        h.OverallScore,
		BudgetAdherence:     h.BudgetAdherence,
		SavingsRate:         h.SavingsRate,
		SpendingConsistency: h.SpendingConsistency,
		GoalProgress:        h.GoalProgress,
		Factors:             h.Factors,
		Recommendations:     h.Recommendations,
		CreatedAt:           h.CreatedAt,
	}
}

// NewSchemaHealthScore creates a database entity from domain model.
func NewSchemaHealthScore(s *healthscore.Score) *HealthScore {
	return &HealthScore{
		ID:                  s.ID,
		UserID:              s.UserID,
		Month:               s.Month,
		Year:                s.Year,
		OverallScore:        s.OverallScore,
		BudgetAdherence:     s.BudgetAdherence,
		SavingsRate:         s.SavingsRate,
		SpendingConsistency: s.SpendingConsistency,
		GoalProgress:        s.GoalProgress,
		Factors:             s.Factors,
		Recommendations:     s.Recommendations,
		CreatedAt:           s.CreatedAt,
	}
}
