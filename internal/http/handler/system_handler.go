package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/internal/service"
)

// SystemHandler exposes the integrity check and the snapshot backups
type SystemHandler struct {
	integrityService *service.IntegrityService
	backupService    *service.BackupService
	logger           *zap.Logger
}

func NewSystemHandler(integrityService *service.IntegrityService, backupService *service.BackupService, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		integrityService: integrityService,
		backupService:    backupService,
		logger:           logger,
	}
}

// Integrity godoc
// @Summary Check reference integrity
// @Description Lists references to deleted records and open entries past their date
// @Tags System
// @Produce json
// @Success 200 {object} finance.IntegrityReport
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /system/integrity [get]
func (h *SystemHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.integrityService.Check(r.Context()))
}

// ListBackups godoc
// @Summary List snapshot backups
// @Tags System
// @Produce json
// @Success 200 {object} domain.ListResponse{data=[]service.BackupInfo}
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /system/backups [get]
func (h *SystemHandler) ListBackups(w http.ResponseWriter, r *http.Request) {
	backups, err := h.backupService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "list backups")
		return
	}
	respondList(w, backups)
}

// CreateBackup godoc
// @Summary Take a snapshot backup
// @Description Writes every collection to the backup storage and prunes old backups
// @Tags System
// @Produce json
// @Success 201 {object} service.BackupInfo
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /system/backups [post]
func (h *SystemHandler) CreateBackup(w http.ResponseWriter, r *http.Request) {
	info, err := h.backupService.Backup(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "create backup")
		return
	}
	respondJSON(w, http.StatusCreated, info)
}
