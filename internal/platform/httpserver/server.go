package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	launchengine "lumora/contexts/campaign-automation/launch-engine"
	launchdomainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	launchhttp "lumora/contexts/campaign-automation/launch-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "lumora/internal/platform/httpserver/docs"
)

const maxBodyBytes = 1 << 20

type Server struct {
	mux    *http.ServeMux
	http   *http.Server
	logger *slog.Logger
	addr   string
	launch launchengine.Module
}

func New(launch launchengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		launch: launch,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/plans/{plan_id}/launch", s.handleLaunchPlan)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/plans/{plan_id}/retry-ads", s.handleRetryAds)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/preflight", s.handlePreflight)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/sync", s.handleSync)
	s.mux.HandleFunc("GET /api/v1/businesses/{business_id}/entities", s.handleListEntities)
	s.mux.HandleFunc("GET /api/v1/businesses/{business_id}/recommendations", s.handleListRecommendations)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/entities/{entity_id}/budget", s.handleUpdateBudget)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/entities/{entity_id}/status", s.handleUpdateStatus)
	s.mux.HandleFunc("GET /api/v1/businesses/{business_id}/drive/folders", s.handleListDriveFolders)
	s.mux.HandleFunc("GET /api/v1/businesses/{business_id}/drive/folders/{folder_id}/files", s.handleListDriveFiles)
	s.mux.HandleFunc("GET /api/v1/businesses/{business_id}/connections/meta/ad-accounts", s.handleListAdAccounts)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/connections/meta/ad-accounts", s.handleSelectAdAccount)
	s.mux.HandleFunc("POST /api/v1/businesses/{business_id}/connections/meta/pixel", s.handleSetPixel)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLaunchPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req launchhttp.LaunchPlanRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	resp, err := s.launch.Handler.LaunchPlanHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.PathValue("plan_id"),
		userID,
		req,
	)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetryAds(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	resp, err := s.launch.Handler.RetryAdsHandler(r.Context(), r.PathValue("business_id"), r.PathValue("plan_id"))
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	resp, err := s.launch.Handler.PreflightHandler(r.Context(), r.PathValue("business_id"))
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	resp, err := s.launch.Handler.SyncHandler(r.Context(), r.PathValue("business_id"))
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListEntities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.launch.Handler.ListEntitiesHandler(
		r.Context(),
		r.PathValue("business_id"),
		query.Get("plan_id"),
		query.Get("status"),
	)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	resp, err := s.launch.Handler.ListRecommendationsHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req launchhttp.UpdateBudgetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.launch.Handler.UpdateBudgetHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.PathValue("entity_id"),
		userID,
		req,
	)
	writeChangeResult(w, resp, err)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req launchhttp.UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.launch.Handler.UpdateStatusHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.PathValue("entity_id"),
		userID,
		req,
	)
	writeChangeResult(w, resp, err)
}

func (s *Server) handleListDriveFolders(w http.ResponseWriter, r *http.Request) {
	resp, err := s.launch.Handler.ListDriveFoldersHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.URL.Query().Get("parent_id"),
	)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDriveFiles(w http.ResponseWriter, r *http.Request) {
	resp, err := s.launch.Handler.ListDriveFilesHandler(
		r.Context(),
		r.PathValue("business_id"),
		r.PathValue("folder_id"),
	)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAdAccounts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.launch.Handler.ListAdAccountsHandler(r.Context(), r.PathValue("business_id"))
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelectAdAccount(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req launchhttp.SelectAdAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := s.launch.Handler.SelectAdAccountHandler(r.Context(), r.PathValue("business_id"), req)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetPixel(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	var req launchhttp.SetPixelRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	resp, err := s.launch.Handler.SetPixelHandler(r.Context(), r.PathValue("business_id"), req)
	if err != nil {
		writeLaunchDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeChangeResult keeps the guardrail report in the body of a blocked change.
func writeChangeResult(w http.ResponseWriter, resp launchhttp.EntityChangeResponse, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, launchdomainerrors.ErrGuardrailBlocked):
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	default:
		writeLaunchDomainError(w, err)
	}
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeLaunchError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return "", false
	}
	return userID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(target); err != nil {
		writeLaunchError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

// decodeOptionalBody accepts an empty body.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	return decodeBody(w, r, target)
}

func writeLaunchDomainError(w http.ResponseWriter, err error) {
	var connErr *launchdomainerrors.ConnectionError
	var apiErr *launchdomainerrors.PlatformAPIError
	switch {
	case errors.Is(err, launchdomainerrors.ErrInvalidRequest):
		writeLaunchError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, launchdomainerrors.ErrPlatformNotSupported):
		writeLaunchError(w, http.StatusBadRequest, "platform_not_supported", err.Error())
	case errors.Is(err, launchdomainerrors.ErrPlanNotFound):
		writeLaunchError(w, http.StatusNotFound, "plan_not_found", err.Error())
	case errors.Is(err, launchdomainerrors.ErrBusinessNotFound):
		writeLaunchError(w, http.StatusNotFound, "business_not_found", err.Error())
	case errors.Is(err, launchdomainerrors.ErrEntityNotFound):
		writeLaunchError(w, http.StatusNotFound, "entity_not_found", err.Error())
	case errors.Is(err, launchdomainerrors.ErrPlanNotApproved):
		writeLaunchError(w, http.StatusConflict, "plan_not_approved", err.Error())
	case errors.Is(err, launchdomainerrors.ErrInvalidPlanTransition):
		writeLaunchError(w, http.StatusConflict, "invalid_plan_transition", err.Error())
	case errors.Is(err, launchdomainerrors.ErrPlanOperationInProgress):
		writeLaunchError(w, http.StatusConflict, "plan_operation_in_progress", err.Error())
	case errors.Is(err, launchdomainerrors.ErrConnectionNotFound):
		writeLaunchError(w, http.StatusConflict, "connection_not_found", err.Error())
	case errors.Is(err, launchdomainerrors.ErrDriveNotConfigured):
		writeLaunchError(w, http.StatusConflict, "drive_not_connected", err.Error())
	case errors.Is(err, launchdomainerrors.ErrTokenRefreshFailed):
		writeLaunchError(w, http.StatusConflict, "token_refresh_failed", err.Error())
	case errors.Is(err, launchdomainerrors.ErrInvalidPlan):
		writeLaunchError(w, http.StatusUnprocessableEntity, "invalid_plan", err.Error())
	case errors.Is(err, launchdomainerrors.ErrInvalidEntityChange):
		writeLaunchError(w, http.StatusUnprocessableEntity, "invalid_entity_change", err.Error())
	case errors.Is(err, launchdomainerrors.ErrGuardrailBlocked):
		writeLaunchError(w, http.StatusUnprocessableEntity, "guardrail_blocked", err.Error())
	case errors.As(err, &connErr):
		writeLaunchError(w, http.StatusBadGateway, "platform_connection_failed", err.Error())
	case errors.As(err, &apiErr):
		writeLaunchError(w, http.StatusBadGateway, "platform_error", launchdomainerrors.FailureMessage(err))
	default:
		writeLaunchError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeLaunchError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, launchhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
