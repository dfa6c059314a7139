package handler

import (
	"net/http"

	"github.com/templui/campus-collector/internal/httpjson"
)

// Health reports liveness. It does not touch the catalog.
func Health(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
}
