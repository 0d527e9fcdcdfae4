package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
)

// InvestmentSimulation represents the database schema for stored simulation
// results. Rows are immutable.
type InvestmentSimulation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_simulation_user_created"`

	PublicID       string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID         string  `gorm:"type:varchar(64);index:idx_simulation_user_created;not null"`
	ConversationID *string `gorm:"type:varchar(50);index"`
	Amount         float64 `gorm:"not null"`
	HorizonMonths  int     `gorm:"not null"`
	Currency       string  `gorm:"type:varchar(8);not null;default:'PKR'"`

	Projections datatypes.JSON `gorm:"type:jsonb;not null"`
	Feasibility datatypes.JSON `gorm:"type:jsonb;not null"`
	Disclaimer  string         `gorm:"type:text;not null"`
}

// TableName specifies the table name for InvestmentSimulation.
func (InvestmentSimulation) TableName() string {
	return "investment_simulations"
}

// EtoD converts database entity to domain model.
func (s *InvestmentSimulation) EtoD() *simulation.Simulation {
	var projections simulation.Projections
	_ = json.Unmarshal(s.Projections, &projections)
	var feasibility simulation.Feasibility
	_ = json.Unmarshal(s.Feasibility, &feasibility)

	return &simulation.Simulation{
		ID:             s.ID,
		PublicID:       s.PublicID,
		UserID:         s.UserID,
		ConversationID: s.ConversationID,
		Amount:         s.Amount,
		HorizonMonths:  s.HorizonMonths,
		Currency:       s.Currency,
		Projections:    projections,
		Feasibility:    feasibility,
		Disclaimer:     s.Disclaimer,
		CreatedAt:      s.CreatedAt,
	}
}

// NewSchemaInvestmentSimulation creates a database entity from domain model.
func NewSchemaInvestmentSimulation(sim *simulation.Simulation) *InvestmentSimulation {
	projections, _ := json.Marshal(sim.Projections)
	feasibility, _ := json.Marshal(sim.Feasibility)

	return &InvestmentSimulation{
		ID:             sim.ID,
		PublicID:       sim.PublicID,
		UserID:         sim.UserID,
		ConversationID: sim.ConversationID,
		Amount:         sim.Amount,
		HorizonMonths:  sim.HorizonMonths,
		Currency:       sim.Currency,
		Projections:    datatypes.JSON(projections),
		Feasibility:    datatypes.JSON(feasibility),
		Disclaimer:     sim.Disclaimer,
		CreatedAt:      sim.CreatedAt,
	}
}
