package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

type ListEntitiesQuery struct {
	BusinessID string
	PlanID     string
	Status     entities.EntityStatus
}

type ListEntitiesUseCase struct {
	Entities ports.EntityRepository
	Logger   *slog.Logger
}

func (uc ListEntitiesUseCase) Execute(ctx context.Context, query ListEntitiesQuery) ([]entities.CampaignEntity, error) {
	filter := ports.EntityFilter{
		BusinessID: strings.TrimSpace(query.BusinessID),
		PlanID:     strings.TrimSpace(query.PlanID),
	}
	if filter.BusinessID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	if query.Status != "" {
		if !entities.IsKnownEntityStatus(query.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", domainerrors.ErrInvalidRequest, query.Status)
		}
		filter.Statuses = []entities.EntityStatus{query.Status}
	}
	return uc.Entities.ListEntities(ctx, filter)
}

type ListRecommendationsUseCase struct {
	Recommendations ports.RecommendationRepository
	Logger          *slog.Logger
}

func (uc ListRecommendationsUseCase) Execute(
	ctx context.Context,
	businessID string,
	status entities.RecommendationStatus,
) ([]entities.Recommendation, error) {
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return uc.Recommendations.ListRecommendations(ctx, businessID, status)
}
