package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/internal/domain/repository"
)

// HealthHandler reports liveness and whether the store answers.
type HealthHandler struct {
	service string
	store   repository.KVStore
}

func NewHealthHandler(service string, store repository.KVStore) *HealthHandler {
	return &HealthHandler{service: service, store: store}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storage := "ok"
	status := http.StatusOK
	if _, err := h.store.Get(ctx, repository.KeySchoolInfo); err != nil {
		storage = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  http.StatusText(status),
		"service": h.service,
		"storage": storage,
	})
}
