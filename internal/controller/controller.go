package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dossier-status-service/internal/dto"
	"dossier-status-service/internal/listing"
	"dossier-status-service/internal/middleware"
	"dossier-status-service/internal/repository"
	"dossier-status-service/internal/service"
)

type DossierController struct {
	Service *service.DossierService

	// Reloj inyectable para que los handlers de lectura sean testeables.
	Now func() time.Time
}

func NewDossierController(s *service.DossierService) *DossierController {
	return &DossierController{Service: s, Now: time.Now}
}

// POST /dossiers/intake — espejo de la vía Rabbit, útil para pruebas
func (ctl *DossierController) Intake(c *gin.Context) {
	var req dto.IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := ctl.Service.InitDossier(c.Request.Context(), req)
	if err == service.ErrDossierExists {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, d)
}

// GET /dossiers — lista enriquecida, filtrada y ordenada vía query params
func (ctl *DossierController) List(c *gin.Context) {
	criteria := listing.Criteria{
		Search:   c.Query("search"),
		Status:   c.DefaultQuery("status", "all"),
		Zone:     c.DefaultQuery("zone", "all"),
		Priority: c.DefaultQuery("priority", "all"),
		Sort:     listing.SortKey(c.DefaultQuery("sort", string(listing.SortDateDesc))),
	}
	if from, ok := parseDate(c.Query("from")); ok {
		criteria.From = &from
	}
	if to, ok := parseDate(c.Query("to")); ok {
		criteria.To = &to
	}

	ds, err := ctl.Service.ListEnriched(c.Request.Context(), criteria, ctl.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ds)
}

// GET /dossiers/stats — contadores del dashboard
func (ctl *DossierController) Stats(c *gin.Context) {
	st, err := ctl.Service.Dashboard(c.Request.Context(), ctl.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// GET /dossiers/:dossierId — vista enriquecida de un dossier
func (ctl *DossierController) Get(c *gin.Context) {
	d, err := ctl.Service.GetEnriched(c.Request.Context(), c.Param("dossierId"), ctl.Now())
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /dossiers/:dossierId/actions — botones permitidos para el rol que consulta
func (ctl *DossierController) Actions(c *gin.Context) {
	d, err := ctl.Service.GetEnriched(c.Request.Context(), c.Param("dossierId"), ctl.Now())
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	actions := ctl.Service.ActionsFor(middleware.Role(c), string(d.Status))
	// Lista vacía = sin acciones para ese rol/estado; no es un error
	c.JSON(http.StatusOK, gin.H{"status": d.Status, "actions": actions})
}

// GET /dossiers/:dossierId/timeline — historial completo
func (ctl *DossierController) Timeline(c *gin.Context) {
	history, err := ctl.Service.Timeline(c.Request.Context(), c.Param("dossierId"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

// GET /dossiers/:dossierId/comment?status=a_revoir — último comentario hacia un estado
func (ctl *DossierController) LastComment(c *gin.Context) {
	comment, err := ctl.Service.LastComment(c.Request.Context(), c.Param("dossierId"), c.DefaultQuery("status", "a_revoir"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// PATCH /dossiers/:dossierId/status
func (ctl *DossierController) ChangeStatus(c *gin.Context) {
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Service.ChangeStatus(
		c.Request.Context(),
		c.Param("dossierId"),
		middleware.Role(c),
		c.GetString("userID"),
		req.Status,
		req.Comment,
	)
	ctl.respondMutation(c, err)
}

// POST /dossiers/:dossierId/delivery/schedule
func (ctl *DossierController) ScheduleDelivery(c *gin.Context) {
	var req dto.ScheduleDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Service.ScheduleDelivery(c.Request.Context(), c.Param("dossierId"), middleware.Role(c), c.GetString("userID"), req)
	ctl.respondMutation(c, err)
}

// POST /dossiers/:dossierId/delivery/confirm
func (ctl *DossierController) ConfirmDelivery(c *gin.Context) {
	var req dto.ConfirmDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Service.ConfirmDelivery(c.Request.Context(), c.Param("dossierId"), middleware.Role(c), c.GetString("userID"), req)
	ctl.respondMutation(c, err)
}

// GET /admin/dossiers/:status — listado por estado, solo admin
func (ctl *DossierController) ListByStatus(c *gin.Context) {
	ds, err := ctl.Service.ListByStatus(c.Request.Context(), c.Param("status"), ctl.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ds)
}

func (ctl *DossierController) respondMutation(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "dossier updated"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "dossier not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrFinalState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
