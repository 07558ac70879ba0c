package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wricardo/klondike/game/engine"
)

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")
	cfg, err := s.service.LoadConfig(r.Context(), name)
	if err != nil {
		fail(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

// handleCreateConfig saves the posted table as <name>.json
func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg engine.GameConfig
	if !decodeBody(w, r, &cfg) {
		return
	}
	if cfg.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), cfg.Name, &cfg); err != nil {
		respondError(w, errorStatus(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	s.log.WithField("config", cfg.Name).Info("config saved")
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": cfg.Name,
	})
}
