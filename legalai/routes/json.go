package routes

import (
	"encoding/json"
	"net/http"

	"legalai/legalai/auth"
	"legalai/legalai/middlewares"
)

func handleJSON(handler func(r *http.Request, s auth.State) (any, int, error)) middlewares.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, s auth.State) {
		res, status, err := handler(r, s)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err != nil {
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(res)
	}
}
