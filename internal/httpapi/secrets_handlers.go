package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"nigaran-engine/internal/apperr"
	"nigaran-engine/internal/secrets"
)

type SecretsHandler struct {
	Set func(name, value string) error
	Log *zap.Logger
}

type setSecretReq struct {
	Value string `json:"value"`
}

// SetByPath stores /admin/secrets/{name} in the OS keychain.
func (h SecretsHandler) SetByPath(w http.ResponseWriter, r *http.Request) {
	name, err := pathID(r, "/admin/secrets/")
	if err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	var req setSecretReq
	if err := decode(w, r, &req); err != nil {
		WriteFailure(w, r, h.Log, err)
		return
	}
	if strings.TrimSpace(req.Value) == "" {
		WriteFailure(w, r, h.Log, apperr.Validation(apperr.Field("value", "Value is required")))
		return
	}

	set := h.Set
	if set == nil {
		set = secrets.Set
	}
	if err := set(name, req.Value); err != nil {
		h.Log.Warn("store secret failed", zap.String("name", name), zap.Error(err))
		WriteError(w, r, http.StatusBadRequest, "Failed to store secret")
		return
	}
	h.Log.Info("secret stored", zap.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}
