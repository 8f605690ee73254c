package http

import (
	"net/http"

	"github.com/scrumkit/collie/pkg/domain/model"
	"github.com/scrumkit/collie/pkg/domain/types"
)

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	status := &model.HealthStatus{
		Status:  "healthy",
		Service: "collie",
		Version: types.Version,
	}

	writeJSON(w, http.StatusOK, status)
}
