package main

import (
	"net/http"
	"strconv"

	"github.com/Simplici0/printdesk/internal/store"
)

// editableSettings maps each setting key to its validator.
var editableSettings = map[string]func(raw, field string) (float64, error){
	store.SettingDefaultProfitMargin:   parsePercent,
	store.SettingDefaultTaxPercent:     parsePercent,
	store.SettingElectricityCostPerKWh: parseNonNegativeFloat,
}

func (s *server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load settings", err)
		return
	}
	s.writeJSON(w, http.StatusOK, settings)
}

func (s *server) handleSettingsUpdate(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	values := make(map[string]float64, len(req))
	for key, raw := range req {
		parse, ok := editableSettings[key]
		if !ok {
			s.writeError(w, http.StatusBadRequest, "configuración desconocida: "+key)
			return
		}
		value, err := parse(raw, key)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		values[key] = value
	}

	for key, value := range values {
		if err := s.store.SetSetting(r.Context(), key, strconv.FormatFloat(value, 'f', -1, 64)); err != nil {
			s.internalError(w, r, "failed to save settings", err)
			return
		}
	}

	s.handleSettingsGet(w, r)
}
