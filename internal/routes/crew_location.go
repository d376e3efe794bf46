package routes

import (
	"cit-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runCrewLocationRouter(secureGroup *echo.Group, ctrl *controllers.CrewLocationController) {
	{
		secureGroup.POST("/crew-locations", ctrl.ReportLocation)
		secureGroup.GET("/requests/:id/track", ctrl.GetTrack)
	}
}
