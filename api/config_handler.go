// Configuration management endpoints.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/stockmood/stockmood/internal/config"
)

// configMu serialises writes to the config file.
var configMu sync.Mutex

// ConfigResponse is the JSON envelope returned by GET /api/v1/config.
type ConfigResponse struct {
	Config     *config.Config `json:"config"`
	ConfigFile string         `json:"config_file"` // path to the active config file
}

// handleGetConfig returns the current (running) configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: config.ConfigFilePath(),
		},
	})
}

// handleUpdateConfig merges the provided partial configuration into the running
// config, persists it to disk, and returns the updated config.
func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var incoming config.Config
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	configMu.Lock()
	defer configMu.Unlock()

	// Merge non-zero values from incoming into running config.
	mergeConfig(s.cfg, &incoming)

	// Persist to disk.
	cfgPath := config.ConfigFilePath()
	if err := config.SaveToFile(s.cfg, cfgPath); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save config: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: ConfigResponse{
			Config:     s.cfg,
			ConfigFile: cfgPath,
		},
	})
}

// handleGetConfigKeys returns the status of all sensitive API keys.
func (s *Server) handleGetConfigKeys(w http.ResponseWriter, r *http.Request) {
	keys := config.CheckAPIKeys(s.cfg)
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    keys,
	})
}

// mergeConfig copies non-zero/non-empty values from src into dst.
func mergeConfig(dst, src *config.Config) {
	// Providers
	if src.Providers.PolygonKey != "" {
		dst.Providers.PolygonKey = src.Providers.PolygonKey
	}
	if src.Providers.PolygonURL != "" {
		dst.Providers.PolygonURL = src.Providers.PolygonURL
	}
	if src.Providers.MarketstackKey != "" {
		dst.Providers.MarketstackKey = src.Providers.MarketstackKey
	}
	if src.Providers.MarketstackURL != "" {
		dst.Providers.MarketstackURL = src.Providers.MarketstackURL
	}
	if src.Providers.RangeYears != 0 {
		dst.Providers.RangeYears = src.Providers.RangeYears
	}

	// News
	if src.News.Source != "" {
		dst.News.Source = src.News.Source
	}
	if len(src.News.RSSFeeds) > 0 {
		dst.News.RSSFeeds = src.News.RSSFeeds
	}

	// Analysis
	if src.Analysis.TimeFrame != "" {
		dst.Analysis.TimeFrame = src.Analysis.TimeFrame
	}

	// API
	if src.API.Host != "" {
		dst.API.Host = src.API.Host
	}
	if src.API.Port != 0 {
		dst.API.Port = src.API.Port
	}
	if len(src.API.CORSOrigins) > 0 {
		dst.API.CORSOrigins = src.API.CORSOrigins
	}

	// Logging
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
}
