package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ftsampaio/sales-import/internal/domain/importjob"
)

// ImportService is the slice of the orchestrator the HTTP layer needs.
type ImportService interface {
	Start(entityType string) (string, error)
	Status(entityType string) importjob.Snapshot
}

type ImportHandler struct {
	service ImportService
}

type startResponse struct {
	Accepted bool   `json:"accepted"`
	JobID    string `json:"job_id,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// statusResponse keeps the field names of the original polling contract.
type statusResponse struct {
	Status    string `json:"status"`
	Ativo     bool   `json:"ativo"`
	Atual     int    `json:"atual"`
	Sucesso   int    `json:"sucesso"`
	Erros     int    `json:"erros"`
	Progresso int    `json:"progresso"`
}

func NewImportHandler(service ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

func (h *ImportHandler) StartImport(c echo.Context) error {
	entityType := c.Param("entityType")

	jobID, err := h.service.Start(entityType)
	if err != nil {
		if errors.Is(err, importjob.ErrAlreadyRunning) {
			return c.JSON(http.StatusConflict, startResponse{
				Accepted: false,
				Reason:   "already-active",
			})
		}
		if errors.Is(err, importjob.ErrUnsupportedEntityType) {
			return c.JSON(http.StatusBadRequest, startResponse{
				Accepted: false,
				Reason:   "unsupported-entity-type",
			})
		}
		return c.JSON(http.StatusInternalServerError, startResponse{
			Accepted: false,
			Reason:   "internal-error",
		})
	}

	return c.JSON(http.StatusAccepted, startResponse{
		Accepted: true,
		JobID:    jobID,
	})
}

func (h *ImportHandler) ImportStatus(c echo.Context) error {
	snap := h.service.Status(c.Param("entityType"))

	return c.JSON(http.StatusOK, statusResponse{
		Status:    string(snap.State),
		Ativo:     snap.Active(),
		Atual:     snap.Processed,
		Sucesso:   snap.Succeeded,
		Erros:     snap.Failed,
		Progresso: snap.Progress(),
	})
}
