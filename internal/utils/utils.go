package utils

import (
	"encoding/json"
	"net/http"
)

// Json сериализует data и пишет ответ с указанным статусом.
func Json(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}
