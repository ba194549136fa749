package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lmsflow/lmsflow/platform"
)

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	if h.lookups.Roles == nil {
		writeError(w, http.StatusNotImplemented, "role directory not available")
		return
	}

	roles, err := h.lookups.Roles.ListRoles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if roles == nil {
		roles = []platform.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *Handler) listProfileFields(w http.ResponseWriter, r *http.Request) {
	if h.lookups.ProfileFields == nil {
		writeError(w, http.StatusNotImplemented, "profile field directory not available")
		return
	}

	fields, err := h.lookups.ProfileFields.ListProfileFields(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if fields == nil {
		fields = []platform.ProfileField{}
	}
	writeJSON(w, http.StatusOK, fields)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	user, lookupErr := h.lookups.Users.UserWithProfileFields(r.Context(), userID)
	if lookupErr != nil {
		if errors.Is(lookupErr, platform.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, lookupErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, user)
}
