package httpapi

import (
	"compress/gzip"
	"encoding/json"
	"net/http"
	"strings"
)

type errorBody struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message"`
}

type dataBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")

	if r != nil && acceptsGzip(r) {
		h.Set("Content-Encoding", "gzip")
		h.Add("Vary", "Accept-Encoding")
		w.WriteHeader(status)
		gw := gzip.NewWriter(w)
		defer gw.Close()
		_ = json.NewEncoder(gw).Encode(v)
		return
	}

	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, r *http.Request, v any) {
	writeJSON(w, r, http.StatusOK, dataBody{Success: true, Data: v})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	f := false
	writeJSON(w, r, status, errorBody{Success: &f, Message: msg})
}

func acceptsGzip(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		enc, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.EqualFold(enc, "gzip") {
			return true
		}
	}
	return false
}
