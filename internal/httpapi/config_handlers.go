package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"

	"nigaran-engine/internal/config"
)

type ConfigHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	Log         *zap.Logger
}

func (h ConfigHandler) current() config.Config {
	return h.CfgVal.Load().(config.Config)
}

// Get returns the live config with credentials masked.
func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur := h.current()
	_, vr := config.NormalizeAndValidate(cur)
	WriteOK(w, http.StatusOK, map[string]any{
		"config":     cur.Redacted(),
		"validation": vr,
	})
}

// Put validates and persists a full config. Most sections take effect on
// the next restart.
func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var incoming config.Config
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, "Invalid JSON: trailing data")
		return
	}

	incoming = config.KeepSecrets(h.current(), incoming)
	normalized, vr := config.NormalizeAndValidate(incoming)
	if !vr.OK() {
		// Return structured errors so the UI can show them nicely
		WriteJSON(w, http.StatusBadRequest, map[string]any{"success": false, "validation": vr})
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		h.Log.Error("config save failed", zap.String("path", h.UserCfgPath), zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, internalMessage)
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		h.Log.Error("config reload failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "Saved but reload failed")
		return
	}
	h.CfgVal.Store(saved)
	h.Log.Info("config saved", zap.String("path", h.UserCfgPath), zap.Strings("warnings", vr.Warnings))
	WriteOK(w, http.StatusOK, map[string]any{"config": saved.Redacted(), "validation": vr})
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteOK(w, http.StatusOK, map[string]any{"path": abs})
}
