package httpadapter

import (
	"context"
	"log/slog"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/application/commands"
	"lumora/contexts/campaign-automation/launch-engine/application/queries"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	"lumora/contexts/campaign-automation/launch-engine/domain/guardrails"
	"lumora/contexts/campaign-automation/launch-engine/ports"
	"lumora/contexts/campaign-automation/launch-engine/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	LaunchPlan          commands.LaunchPlanUseCase
	RetryFailedAds      commands.RetryFailedAdsUseCase
	RunDailySync        commands.RunDailySyncUseCase
	ApplyEntityChange   commands.ApplyEntityChangeUseCase
	Preflight           queries.PreflightUseCase
	ListEntities        queries.ListEntitiesUseCase
	ListRecommendations queries.ListRecommendationsUseCase
	BrowseDrive         queries.BrowseDriveUseCase
	ListAdAccounts      queries.ListAdAccountsUseCase
	SelectAdAccount     commands.SelectAdAccountUseCase
	SetPixel            commands.SetPixelUseCase
	Logger              *slog.Logger
}

func (h Handler) logFailure(message string, event string, err error, attrs ...any) {
	args := append([]any{
		"event", event,
		"module", application.ModuleName,
		"layer", "transport",
	}, attrs...)
	args = append(args, "error", err.Error())
	application.ResolveLogger(h.Logger).Error(message, args...)
}

// LaunchPlanHandler godoc
// @Summary Launch campaign plan
// @Description Materializes an approved plan depth-first on one ad platform.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param plan_id path string true "Plan id"
// @Param request body httptransport.LaunchPlanRequest false "Target platform"
// @Success 200 {object} httptransport.LaunchPlanResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/plans/{plan_id}/launch [post]
func (h Handler) LaunchPlanHandler(
	ctx context.Context,
	businessID string,
	planID string,
	userID string,
	request httptransport.LaunchPlanRequest,
) (httptransport.LaunchPlanResponse, error) {
	application.ResolveLogger(h.Logger).Info("http launch plan received",
		"event", "launch_engine_http_launch_received",
		"module", application.ModuleName,
		"layer", "transport",
		"business_id", businessID,
		"plan_id", planID,
		"user_id", userID,
	)
	result, err := h.LaunchPlan.Execute(ctx, commands.LaunchPlanCommand{
		PlanID:     planID,
		BusinessID: businessID,
		Platform:   entities.Platform(request.Platform),
	})
	if err != nil {
		h.logFailure("http launch plan failed", "launch_engine_http_launch_failed", err,
			"business_id", businessID, "plan_id", planID)
		return httptransport.LaunchPlanResponse{}, err
	}
	return httptransport.LaunchPlanResponse{
		PlanID:             result.PlanID,
		Platform:           string(result.Platform),
		CampaignsAttempted: result.CampaignsAttempted,
		CampaignsCreated:   result.CampaignsCreated,
		AdSetsCreated:      result.AdSetsCreated,
		AdsCreated:         result.AdsCreated,
		Reused:             result.Reused,
		Failed:             toFailureDTOs(result.Failed),
	}, nil
}

// RetryAdsHandler godoc
// @Summary Retry failed ads
// @Description Re-attempts ads left in error under their live ad sets.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param plan_id path string true "Plan id"
// @Success 200 {object} httptransport.RetryAdsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/plans/{plan_id}/retry-ads [post]
func (h Handler) RetryAdsHandler(ctx context.Context, businessID string, planID string) (httptransport.RetryAdsResponse, error) {
	result, err := h.RetryFailedAds.Execute(ctx, commands.RetryFailedAdsCommand{PlanID: planID, BusinessID: businessID})
	if err != nil {
		h.logFailure("http retry ads failed", "launch_engine_http_retry_failed", err,
			"business_id", businessID, "plan_id", planID)
		return httptransport.RetryAdsResponse{}, err
	}
	return httptransport.RetryAdsResponse{
		PlanID:        result.PlanID,
		Retried:       result.Retried,
		Failed:        result.Failed,
		FailedDetails: toFailureDTOs(result.FailedDetails),
	}, nil
}

// PreflightHandler godoc
// @Summary Launch readiness
// @Description Runs the Meta readiness checklist for a business.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param business_id path string true "Business id"
// @Success 200 {object} httptransport.PreflightResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/preflight [post]
func (h Handler) PreflightHandler(ctx context.Context, businessID string) (httptransport.PreflightResponse, error) {
	result, err := h.Preflight.Execute(ctx, businessID)
	if err != nil {
		h.logFailure("http preflight failed", "launch_engine_http_preflight_failed", err, "business_id", businessID)
		return httptransport.PreflightResponse{}, err
	}
	checks := make([]httptransport.PreflightCheckDTO, 0, len(result.Checks))
	for _, check := range result.Checks {
		checks = append(checks, httptransport.PreflightCheckDTO{
			Label:  check.Label,
			Pass:   check.Pass,
			Action: check.Action,
		})
	}
	return httptransport.PreflightResponse{Ready: result.Ready, Checks: checks}, nil
}

// SyncHandler runs the daily sync on demand.
// @Summary Sync performance
// @Description Pulls yesterday's metrics for live entities and refreshes recommendations.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Success 200 {object} httptransport.SyncResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/sync [post]
func (h Handler) SyncHandler(ctx context.Context, businessID string) (httptransport.SyncResponse, error) {
	result, err := h.RunDailySync.Execute(ctx, commands.RunDailySyncCommand{BusinessID: businessID})
	if err != nil {
		h.logFailure("http sync failed", "launch_engine_http_sync_failed", err, "business_id", businessID)
		return httptransport.SyncResponse{}, err
	}
	return httptransport.SyncResponse{
		BusinessID:             result.BusinessID,
		SnapshotDate:           result.SnapshotDate,
		EntitiesProcessed:      result.EntitiesProcessed,
		SnapshotsUpserted:      result.SnapshotsUpserted,
		InsightFailures:        result.InsightFailures,
		PlatformFailures:       result.PlatformFailures,
		RecommendationsCreated: result.RecommendationsCreated,
	}, nil
}

// ListEntitiesHandler godoc
// @Summary List campaign entities
// @Tags launch-engine
// @Produce json
// @Param business_id path string true "Business id"
// @Param plan_id query string false "Plan id"
// @Param status query string false "Entity status"
// @Success 200 {object} httptransport.ListEntitiesResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/entities [get]
func (h Handler) ListEntitiesHandler(
	ctx context.Context,
	businessID string,
	planID string,
	status string,
) (httptransport.ListEntitiesResponse, error) {
	items, err := h.ListEntities.Execute(ctx, queries.ListEntitiesQuery{
		BusinessID: businessID,
		PlanID:     planID,
		Status:     entities.EntityStatus(status),
	})
	if err != nil {
		return httptransport.ListEntitiesResponse{}, err
	}
	dtos := make([]httptransport.EntityDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, httptransport.EntityDTO{
			EntityID:         item.EntityID,
			PlanID:           item.PlanID,
			Platform:         string(item.Platform),
			EntityType:       string(item.EntityType),
			PlatformEntityID: item.PlatformEntityID,
			TempID:           item.TempID,
			ParentEntityID:   item.ParentEntityID,
			Name:             item.Name(),
			Status:           string(item.Status),
			ConfigSnapshot:   item.ConfigSnapshot,
			CreatedAt:        item.CreatedAt,
			UpdatedAt:        item.UpdatedAt,
		})
	}
	return httptransport.ListEntitiesResponse{Entities: dtos}, nil
}

func (h Handler) ListRecommendationsHandler(
	ctx context.Context,
	businessID string,
	status string,
) (httptransport.ListRecommendationsResponse, error) {
	items, err := h.ListRecommendations.Execute(ctx, businessID, entities.RecommendationStatus(status))
	if err != nil {
		return httptransport.ListRecommendationsResponse{}, err
	}
	dtos := make([]httptransport.RecommendationDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, httptransport.RecommendationDTO{
			RecommendationID: item.RecommendationID,
			EntityID:         item.EntityID,
			Type:             string(item.Type),
			Title:            item.Title,
			Description:      item.Description,
			Action:           item.Action,
			Rationale:        item.Rationale,
			EstimatedImpact:  item.EstimatedImpact,
			RiskLevel:        string(item.RiskLevel),
			Confidence:       item.Confidence,
			RequiresApproval: item.RequiresApproval,
			Status:           string(item.Status),
			CreatedAt:        item.CreatedAt,
			ResolvedAt:       item.ResolvedAt,
		})
	}
	return httptransport.ListRecommendationsResponse{Recommendations: dtos}, nil
}

// UpdateBudgetHandler returns the guardrail report alongside a blocked change.
// @Summary Update campaign budget
// @Description Changes a live campaign's daily budget after evaluating guardrails.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param entity_id path string true "Entity id"
// @Param request body httptransport.UpdateBudgetRequest true "New budget"
// @Success 200 {object} httptransport.EntityChangeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/entities/{entity_id}/budget [post]
func (h Handler) UpdateBudgetHandler(
	ctx context.Context,
	businessID string,
	entityID string,
	userID string,
	request httptransport.UpdateBudgetRequest,
) (httptransport.EntityChangeResponse, error) {
	result, err := h.ApplyEntityChange.Execute(ctx, commands.ApplyEntityChangeCommand{
		BusinessID:        businessID,
		EntityID:          entityID,
		UserID:            userID,
		Kind:              commands.ChangeBudget,
		DailyBudget:       request.DailyBudget,
		EnforceGuardrails: request.EnforceGuardrails,
	})
	if err != nil {
		h.logFailure("http budget change failed", "launch_engine_http_budget_failed", err,
			"business_id", businessID, "entity_id", entityID)
	}
	return toChangeResponse(result), err
}

// UpdateStatusHandler godoc
// @Summary Update entity status
// @Description Pauses or activates a live entity after evaluating guardrails.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param entity_id path string true "Entity id"
// @Param request body httptransport.UpdateStatusRequest true "New status"
// @Success 200 {object} httptransport.EntityChangeResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/entities/{entity_id}/status [post]
func (h Handler) UpdateStatusHandler(
	ctx context.Context,
	businessID string,
	entityID string,
	userID string,
	request httptransport.UpdateStatusRequest,
) (httptransport.EntityChangeResponse, error) {
	result, err := h.ApplyEntityChange.Execute(ctx, commands.ApplyEntityChangeCommand{
		BusinessID:        businessID,
		EntityID:          entityID,
		UserID:            userID,
		Kind:              commands.ChangeStatus,
		Status:            ports.PlatformStatus(request.Status),
		EnforceGuardrails: request.EnforceGuardrails,
	})
	if err != nil {
		h.logFailure("http status change failed", "launch_engine_http_status_failed", err,
			"business_id", businessID, "entity_id", entityID)
	}
	return toChangeResponse(result), err
}

// ListDriveFoldersHandler godoc
// @Summary List Drive folders
// @Tags launch-engine
// @Produce json
// @Param business_id path string true "Business id"
// @Param parent_id query string false "Parent folder id"
// @Success 200 {object} httptransport.ListDriveFoldersResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/drive/folders [get]
func (h Handler) ListDriveFoldersHandler(
	ctx context.Context,
	businessID string,
	parentID string,
) (httptransport.ListDriveFoldersResponse, error) {
	folders, err := h.BrowseDrive.ListFolders(ctx, businessID, parentID)
	if err != nil {
		h.logFailure("http drive folders failed", "launch_engine_http_drive_folders_failed", err, "business_id", businessID)
		return httptransport.ListDriveFoldersResponse{}, err
	}
	dtos := make([]httptransport.DriveFolderDTO, 0, len(folders))
	for _, folder := range folders {
		dtos = append(dtos, httptransport.DriveFolderDTO{ID: folder.ID, Name: folder.Name, Path: folder.Path})
	}
	return httptransport.ListDriveFoldersResponse{Folders: dtos}, nil
}

func (h Handler) ListDriveFilesHandler(
	ctx context.Context,
	businessID string,
	folderID string,
) (httptransport.ListDriveFilesResponse, error) {
	files, err := h.BrowseDrive.ListFiles(ctx, businessID, folderID)
	if err != nil {
		h.logFailure("http drive files failed", "launch_engine_http_drive_files_failed", err,
			"business_id", businessID, "folder_id", folderID)
		return httptransport.ListDriveFilesResponse{}, err
	}
	dtos := make([]httptransport.DriveFileDTO, 0, len(files))
	for _, file := range files {
		dtos = append(dtos, httptransport.DriveFileDTO{
			ID:           file.ID,
			Name:         file.Name,
			MimeType:     file.MimeType,
			ThumbnailURL: file.ThumbnailURL,
			WebViewLink:  file.WebViewLink,
			Size:         file.Size,
			CreatedTime:  file.CreatedTime,
		})
	}
	return httptransport.ListDriveFilesResponse{Files: dtos}, nil
}

// ListAdAccountsHandler godoc
// @Summary List Meta ad accounts
// @Description Lists the ad accounts reachable with the business's Meta connection and the selected one.
// @Tags launch-engine
// @Produce json
// @Param business_id path string true "Business id"
// @Success 200 {object} httptransport.ListAdAccountsResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/connections/meta/ad-accounts [get]
func (h Handler) ListAdAccountsHandler(ctx context.Context, businessID string) (httptransport.ListAdAccountsResponse, error) {
	result, err := h.ListAdAccounts.Execute(ctx, businessID)
	if err != nil {
		h.logFailure("http list ad accounts failed", "launch_engine_http_ad_accounts_failed", err, "business_id", businessID)
		return httptransport.ListAdAccountsResponse{}, err
	}
	dtos := make([]httptransport.AdAccountDTO, 0, len(result.Accounts))
	for _, account := range result.Accounts {
		dtos = append(dtos, httptransport.AdAccountDTO{ID: account.ID, Name: account.Name, AccountStatus: account.Status})
	}
	return httptransport.ListAdAccountsResponse{Accounts: dtos, SelectedID: result.SelectedID}, nil
}

// SelectAdAccountHandler godoc
// @Summary Select Meta ad account
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param request body httptransport.SelectAdAccountRequest true "Ad account"
// @Success 200 {object} httptransport.ConnectionSettingsResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/connections/meta/ad-accounts [post]
func (h Handler) SelectAdAccountHandler(
	ctx context.Context,
	businessID string,
	request httptransport.SelectAdAccountRequest,
) (httptransport.ConnectionSettingsResponse, error) {
	connection, err := h.SelectAdAccount.Execute(ctx, commands.SelectAdAccountCommand{
		BusinessID:    businessID,
		AdAccountID:   request.AdAccountID,
		AdAccountName: request.AdAccountName,
	})
	if err != nil {
		h.logFailure("http select ad account failed", "launch_engine_http_select_ad_account_failed", err, "business_id", businessID)
		return httptransport.ConnectionSettingsResponse{}, err
	}
	return toConnectionSettings(connection), nil
}

// SetPixelHandler godoc
// @Summary Set Meta pixel
// @Description An empty pixel_id clears the pixel.
// @Tags launch-engine
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting user id"
// @Param business_id path string true "Business id"
// @Param request body httptransport.SetPixelRequest true "Pixel"
// @Success 200 {object} httptransport.ConnectionSettingsResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/v1/businesses/{business_id}/connections/meta/pixel [post]
func (h Handler) SetPixelHandler(
	ctx context.Context,
	businessID string,
	request httptransport.SetPixelRequest,
) (httptransport.ConnectionSettingsResponse, error) {
	connection, err := h.SetPixel.Execute(ctx, commands.SetPixelCommand{BusinessID: businessID, PixelID: request.PixelID})
	if err != nil {
		h.logFailure("http set pixel failed", "launch_engine_http_set_pixel_failed", err, "business_id", businessID)
		return httptransport.ConnectionSettingsResponse{}, err
	}
	return toConnectionSettings(connection), nil
}

func toConnectionSettings(connection entities.Connection) httptransport.ConnectionSettingsResponse {
	return httptransport.ConnectionSettingsResponse{
		ConnectionID:  connection.ConnectionID,
		AdAccountID:   connection.PlatformAccountID,
		AdAccountName: connection.PlatformAccountName,
		PixelID:       connection.PixelID,
	}
}

func toFailureDTOs(failures []commands.NodeFailure) []httptransport.NodeFailureDTO {
	items := make([]httptransport.NodeFailureDTO, 0, len(failures))
	for _, failure := range failures {
		items = append(items, httptransport.NodeFailureDTO{
			TempID:       failure.TempID,
			EntityType:   string(failure.EntityType),
			Name:         failure.Name,
			ErrorTitle:   failure.ErrorTitle,
			ErrorMessage: failure.ErrorMessage,
		})
	}
	return items
}

func toCheckDTO(check guardrails.Check) httptransport.GuardrailCheckDTO {
	return httptransport.GuardrailCheckDTO{Allowed: check.Allowed, Reason: check.Reason}
}

func toChangeResponse(result commands.EntityChangeResult) httptransport.EntityChangeResponse {
	report := httptransport.GuardrailReportDTO{
		ChangeThrottle: toCheckDTO(result.Guardrails.ChangeThrottle),
		LearningPhase:  toCheckDTO(result.Guardrails.LearningPhase),
	}
	if result.Guardrails.BudgetIncrease != nil {
		budget := toCheckDTO(*result.Guardrails.BudgetIncrease)
		report.BudgetIncrease = &budget
	}
	return httptransport.EntityChangeResponse{
		EntityID:   result.EntityID,
		Change:     string(result.Kind),
		OldValue:   result.OldValue,
		NewValue:   result.NewValue,
		Applied:    result.Applied,
		Guardrails: report,
		Warnings:   result.Warnings,
	}
}
