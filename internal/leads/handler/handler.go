// Package handler exposes the leads bounded context over HTTP.
package handler

import (
	"net/http"
	"net/url"
	"strings"

	"qc_portal_backend/internal/leads/domain"
	"qc_portal_backend/internal/leads/service"
	"qc_portal_backend/internal/leads/transport"
	"qc_portal_backend/platform/httpkit"
	"qc_portal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidLeadID    = "invalid lead id"

	// maxRecordingSize caps the multipart recording part at 100 MiB.
	maxRecordingSize = 100 << 20
)

type Handler struct {
	svc        *service.Service
	controller *service.Controller
	evidence   service.EvidenceStore
	val        *validator.Validator
}

func New(svc *service.Service, controller *service.Controller, evidence service.EvidenceStore, val *validator.Validator) *Handler {
	return &Handler{svc: svc, controller: controller, evidence: evidence, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/pending", h.ListPending)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/duplicates", h.CheckDuplicates)
	rg.GET("/:id/recording", h.Recording)
	rg.POST("/:id/disposition", h.Disposition)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) ListPending(c *gin.Context) {
	var req transport.ListPendingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	queue, err := h.svc.ListPending(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, queue)
}

func (h *Handler) CheckDuplicates(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	result, err := h.svc.CheckDuplicates(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// Recording returns a short-lived presigned link to the lead's call-recording
// evidence. The stored URL is never served directly; the bucket stays private.
func (h *Handler) Recording(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	if h.evidence == nil {
		httpkit.Error(c, http.StatusServiceUnavailable, "recording storage is not configured", nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	key, ok := "", false
	if lead.RecordingURL != nil {
		key, ok = recordingObjectKey(*lead.RecordingURL)
	}
	if !ok {
		httpkit.Error(c, http.StatusNotFound, "no recording evidence for this lead", nil)
		return
	}

	link, err := h.evidence.DownloadURL(c.Request.Context(), key)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"url": link})
}

// recordingObjectKey extracts the bucket-relative object key from a stored
// recording URL of the form endpoint/bucket/key.
func recordingObjectKey(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	_, key, found := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if !found || key == "" {
		return "", false
	}
	return key, true
}

// Disposition accepts a multipart form: "disposition" and "comment" fields plus
// an optional "recording" file part. The recording is forwarded as-is; a failed
// upload downgrades to a warning and never blocks the commit.
func (h *Handler) Disposition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidLeadID, nil)
		return
	}

	reviewerID, ok := reviewerFromContext(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "missing reviewer identity", nil)
		return
	}

	req := transport.DispositionRequest{
		Disposition: domain.Disposition(c.PostForm("disposition")),
		Comment:     c.PostForm("comment"),
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var ev *service.Evidence
	if file, err := c.FormFile("recording"); err == nil && file != nil {
		if file.Size > maxRecordingSize {
			httpkit.Error(c, http.StatusRequestEntityTooLarge, "recording exceeds size limit", nil)
			return
		}
		f, err := file.Open()
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "unable to read recording", nil)
			return
		}
		defer f.Close()
		ev = &service.Evidence{
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Reader:      f,
		}
	}

	resp, err := h.controller.Apply(c.Request.Context(), id, reviewerID, req, ev)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func reviewerFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(httpkit.ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
