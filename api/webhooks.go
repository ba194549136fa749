package api

import (
	"net/http"

	"github.com/lmsflow/lmsflow/id"
	"github.com/lmsflow/lmsflow/registry"
)

type createWebhookRequest struct {
	Name      string         `json:"name"`
	URL       string         `json:"url"`
	EventType string         `json:"eventtype"`
	Metadata  map[string]any `json:"meta,omitempty"`
	Secret    string         `json:"secret,omitempty"`
	CreatedBy int64          `json:"created_by,omitempty"`
}

type createWebhookResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type deleteWebhookResponse struct {
	Status    string `json:"status"`
	DeletedID string `json:"deleted_id"`
}

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	var req createWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.registry.Create(r.Context(), registry.Input{
		Name:      req.Name,
		URL:       req.URL,
		EventType: req.EventType,
		Metadata:  req.Metadata,
		Secret:    req.Secret,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createWebhookResponse{
		ID:     sub.ID.String(),
		Status: "success",
	})
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	subs, err := h.registry.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *Handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	subID, err := id.ParseWebhookID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook ID")
		return
	}

	sub, getErr := h.registry.Get(r.Context(), subID)
	if getErr != nil {
		writeServiceError(w, getErr)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	subID, err := id.ParseWebhookID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook ID")
		return
	}

	if delErr := h.registry.Delete(r.Context(), subID); delErr != nil {
		writeServiceError(w, delErr)
		return
	}
	writeJSON(w, http.StatusOK, deleteWebhookResponse{
		Status:    "success",
		DeletedID: subID.String(),
	})
}
