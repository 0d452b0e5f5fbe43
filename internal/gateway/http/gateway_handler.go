// Package http provides the HTTP handlers for the access gateway. Every
// route below the login endpoint runs behind the authentication middleware;
// authorization and audit logging happen inside the gateway use case.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditDomain "github.com/allisson/medgate/internal/audit/domain"
	authHTTP "github.com/allisson/medgate/internal/auth/http"
	apperrors "github.com/allisson/medgate/internal/errors"
	"github.com/allisson/medgate/internal/gateway/http/dto"
	gatewayUseCase "github.com/allisson/medgate/internal/gateway/usecase"
	"github.com/allisson/medgate/internal/httputil"
	customValidation "github.com/allisson/medgate/internal/validation"
)

// GatewayHandler handles HTTP requests for gateway operations.
type GatewayHandler struct {
	gateway gatewayUseCase.Gateway
	logger  *slog.Logger
}

// NewGatewayHandler creates a new gateway handler.
func NewGatewayHandler(gateway gatewayUseCase.Gateway, logger *slog.Logger) *GatewayHandler {
	return &GatewayHandler{gateway: gateway, logger: logger}
}

// LoginHandler verifies credentials and issues a session token.
// POST /v1/login - Unauthenticated, rate limited per IP.
func (h *GatewayHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.gateway.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapLoginOutputToResponse(output))
}

// LogoutHandler revokes the caller's session.
// POST /v1/logout - Requires authentication.
func (h *GatewayHandler) LogoutHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}
	tokenHash, ok := authHTTP.GetTokenHash(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.gateway.Logout(c.Request.Context(), actor, tokenHash); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListRecordsHandler returns the role-shaped record list projection.
// GET /v1/records?offset=N&limit=N
func (h *GatewayHandler) ListRecordsHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	view, err := h.gateway.ListRecords(c.Request.Context(), actor, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordListViewToResponse(view, offset, limit))
}

// CreateRecordHandler registers a new record.
// POST /v1/records
func (h *GatewayHandler) CreateRecordHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ack, err := h.gateway.CreateRecord(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordAckToResponse(ack))
}

// EditRecordHandler applies a partial record update.
// PATCH /v1/records/:id
func (h *GatewayHandler) EditRecordHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid record id: %w", err), h.logger)
		return
	}

	var req dto.EditRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ack, err := h.gateway.EditRecord(c.Request.Context(), actor, recordID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordAckToResponse(ack))
}

// DeleteRecordHandler removes a record and its consent entry.
// DELETE /v1/records/:id
func (h *GatewayHandler) DeleteRecordHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid record id: %w", err), h.logger)
		return
	}

	if err := h.gateway.DeleteRecord(c.Request.Context(), actor, recordID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// AnonymizeHandler runs the batch anonymization pass over raw records.
// POST /v1/records/anonymize
func (h *GatewayHandler) AnonymizeHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	count, err := h.gateway.AnonymizeAll(c.Request.Context(), actor)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"anonymized": count})
}

// ListAuditLogsHandler returns audit entries, newest first.
// GET /v1/audit-logs?actor_id=UUID&outcome=allowed|denied&offset=N&limit=N
func (h *GatewayHandler) ListAuditLogsHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	filter := &auditDomain.ListFilter{Offset: offset, Limit: limit}

	if raw := c.Query("actor_id"); raw != "" {
		actorID, err := uuid.Parse(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid actor_id: %w", err), h.logger)
			return
		}
		filter.ActorID = &actorID
	}
	if raw := c.Query("outcome"); raw != "" {
		outcome := auditDomain.Outcome(raw)
		if outcome != auditDomain.OutcomeAllowed && outcome != auditDomain.OutcomeDenied {
			httputil.HandleBadRequestGin(c, fmt.Errorf("invalid outcome: %q", raw), h.logger)
			return
		}
		filter.Outcome = &outcome
	}

	entries, err := h.gateway.QueryAuditLog(c.Request.Context(), actor, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToResponse(entries, offset, limit))
}

// SetConsentHandler records or updates consent for a record.
// PUT /v1/records/:id/consent
func (h *GatewayHandler) SetConsentHandler(c *gin.Context) {
	actor, ok := authHTTP.GetUser(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid record id: %w", err), h.logger)
		return
	}

	var req dto.SetConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	entry, err := h.gateway.SetConsent(c.Request.Context(), actor, req.ToInput(recordID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentEntryToResponse(entry))
}
