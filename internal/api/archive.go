package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sunr3d/ds-archiver/internal/interfaces/services"
	"github.com/sunr3d/ds-archiver/internal/middleware"
	"github.com/sunr3d/ds-archiver/internal/services/archive_service"
	"github.com/sunr3d/ds-archiver/models"
)

const (
	headerRunID          = "X-Run-ID"
	headerDownloadStatus = "X-Download-Status"
)

type ArchiveAPI struct {
	service services.ArchiveService
	logger  *zap.Logger
}

func New(service services.ArchiveService, logger *zap.Logger) *ArchiveAPI {
	return &ArchiveAPI{
		service: service,
		logger:  logger,
	}
}

// GET /archive/{number}, GET /download/{number}
func (h *ArchiveAPI) DownloadArchive(w http.ResponseWriter, r *http.Request) {
	number, err := parseNumber(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	streaming := false
	deliver := func(ctx context.Context, artifact *models.Artifact) error {
		f, err := os.Open(artifact.Path)
		if err != nil {
			return err
		}
		defer f.Close()

		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", artifact.Name))
		w.Header().Set("Content-Length", strconv.FormatInt(artifact.Size, 10))
		w.Header().Set(headerRunID, artifact.RunID)
		w.Header().Set(headerDownloadStatus, string(artifact.DownloadStatus))
		w.WriteHeader(http.StatusOK)
		streaming = true

		_, err = io.Copy(w, f)
		return err
	}

	req := models.BuildRequest{Number: number, Token: middleware.BearerToken(r)}
	run, err := h.service.BuildArchive(r.Context(), req, deliver)
	if err != nil {
		if streaming {
			// Заголовки уже отправлены, клиенту остается оборванный ответ.
			h.logger.Warn("передача архива прервана", zap.Int("demarche", number), zap.Error(err))
			return
		}
		h.logger.Error("ошибка сборки архива", zap.Int("demarche", number), zap.Error(err))
		if run != nil {
			w.Header().Set(headerRunID, run.ID)
		}
		h.writeError(w, err)
		return
	}
}

// GET /check/{number}
func (h *ArchiveAPI) CheckDemarche(w http.ResponseWriter, r *http.Request) {
	number, err := parseNumber(r)
	if err != nil {
		writeJSON(w, h.logger, statusFor(err), checkErrorResp{Message: err.Error()})
		return
	}

	req := models.BuildRequest{Number: number, Token: middleware.BearerToken(r)}
	summary, err := h.service.CheckDemarche(r.Context(), req)
	if err != nil {
		h.logger.Warn("ошибка проверки демарша", zap.Int("demarche", number), zap.Error(err))
		writeJSON(w, h.logger, statusFor(err), checkErrorResp{Message: checkMessage(err)})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, checkResp{
		ID:       summary.Number,
		Title:    summary.Title,
		Dossiers: summary.DossierCount,
	})
}

// GET /runs/{id}
func (h *ArchiveAPI) GetRunStatus(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if runID == "" {
		writeJSON(w, h.logger, http.StatusBadRequest, errorResp{Error: "bad_request", Reason: "отсутствует id запуска"})
		return
	}

	run, err := h.service.GetRun(r.Context(), runID)
	if err != nil {
		h.logger.Warn("запуск не найден", zap.String("run_id", runID), zap.Error(err))
		writeJSON(w, h.logger, http.StatusNotFound, errorResp{Error: "not_found", Reason: "запуск не найден"})
		return
	}

	writeJSON(w, h.logger, http.StatusOK, runStatusResp{
		ID:             run.ID,
		DemarcheNumber: run.DemarcheNumber,
		State:          string(run.State),
		Failure:        string(run.Failure),
		DownloadStatus: string(run.DownloadStatus),
		Dossiers:       run.Dossiers,
		Files:          run.Files,
		Errors:         run.Errors,
		CreatedAt:      run.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      run.UpdatedAt.Format(time.RFC3339),
	})
}

func parseNumber(r *http.Request) (int, error) {
	raw := r.PathValue("number")
	number, err := strconv.Atoi(raw)
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: %q", archive_service.ErrInvalidNumber, raw)
	}
	return number, nil
}

func (h *ArchiveAPI) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, h.logger, status, errorResp{Error: errorCode(status), Reason: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, archive_service.ErrInvalidNumber):
		return http.StatusBadRequest
	case errors.Is(err, archive_service.ErrUnauthorized), errors.Is(err, archive_service.ErrTokenMissing):
		return http.StatusUnauthorized
	case errors.Is(err, archive_service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, archive_service.ErrUnknown):
		return http.StatusBadGateway
	case errors.Is(err, archive_service.ErrServerBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusBadGateway:
		return "upstream_error"
	case http.StatusServiceUnavailable:
		return "server_busy"
	default:
		return "internal"
	}
}

// checkMessage возвращает текст для поля reponse, понятный пользователю формы.
func checkMessage(err error) string {
	switch {
	case errors.Is(err, archive_service.ErrUnauthorized), errors.Is(err, archive_service.ErrTokenMissing):
		return "Le jeton n'est pas valide"
	case errors.Is(err, archive_service.ErrNotFound):
		return "Démarche introuvable"
	default:
		return "Erreur lors de la récupération de la démarche"
	}
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("ошибка кодирования JSON ответа", zap.Error(err))
	}
}
