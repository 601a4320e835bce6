package controllers

import (
	"net/http"
	"time"

	"pharmacy-system/pkg/utils"

	"github.com/labstack/echo/v4"
)

type HealthController struct {
	backend string
	started time.Time
}

func NewHealthController(backend string) *HealthController {
	return &HealthController{backend: backend, started: time.Now()}
}

func (ctrl *HealthController) Check(c echo.Context) error {
	return utils.SuccessResponse(c, map[string]interface{}{
		"backend": ctrl.backend,
		"uptime":  time.Since(ctrl.started).Round(time.Second).String(),
	}, "ok", http.StatusOK)
}
