package routes

import (
	"cit-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runReportRouter(secureGroup *echo.Group, ctrl *controllers.ReportController) {
	secureGroup.GET("/reports/completed", ctrl.GetCompletedRegister)
}
