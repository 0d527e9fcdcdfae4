package toolaudit

import (
	"context"

	"gorm.io/gorm"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/database/entities"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Repository persists tool invocation audit rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a tool audit repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Record appends one audit row. Audit rows are never updated or deleted.
func (r *Repository) Record(ctx context.Context, inv *tool.Invocation) error {
	entity := entities.NewSchemaToolInvocation(inv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError, "failed to record tool invocation", err)
	}

	inv.ID = entity.ID
	return nil
}
