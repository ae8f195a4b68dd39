package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger/internal/models"
	"github.com/sheikh-saqib/accounts-ledger/internal/services"
)

type Handler struct {
	services *services.Services
	log      *logger.Logger
}

func NewHandler(s *services.Services, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: s, log: log}
}

type idResponse struct {
	ID string `json:"id"`
}

func (h *Handler) Health(c *gin.Context) {
	respondOK(c, http.StatusOK, gin.H{"status": "ok"})
}

// NewAccount handles POST /accounts {holderId}.
func (h *Handler) NewAccount(c *gin.Context) {
	var req models.NewAccountParams
	if !h.bind(c, &req) {
		return
	}
	id, err := h.services.NewAccount(c.Request.Context(), req.HolderID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, idResponse{ID: id})
}

// Info handles GET /accounts/:id.
func (h *Handler) Info(c *gin.Context) {
	info, err := h.services.Info(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, info)
}

// NewAct handles POST /accounts/:id/acts {amount, date, memo}.
func (h *Handler) NewAct(c *gin.Context) {
	var req models.ActParams
	if !h.bind(c, &req) {
		return
	}
	id, err := h.services.NewAct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, idResponse{ID: id})
}

// Query handles GET /accounts/:id/acts.
func (h *Handler) Query(c *gin.Context) {
	views, err := h.services.Query(c.Request.Context(), c.Param("id"), models.QueryParams{
		ActID:    c.Query("actId"),
		Date:     c.Query("date"),
		MemoText: c.Query("memoText"),
		Count:    c.Query("count"),
		Index:    c.Query("index"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, views)
}

// Statement handles GET /accounts/:id/statement.
func (h *Handler) Statement(c *gin.Context) {
	lines, err := h.services.Statement(c.Request.Context(), c.Param("id"), models.StatementParams{
		FromDate: c.Query("fromDate"),
		ToDate:   c.Query("toDate"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, lines)
}

// bind decodes the JSON body; amounts must arrive as strings like "12.34".
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Debug("bad request body", "path", c.FullPath(), "error", err)
		respondError(c, apperr.New(apperr.BadRequest, "invalid request body: "+err.Error()))
		return false
	}
	return true
}
