package routes

import (
	"cit-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runUploadRouter(secureGroup *echo.Group, ctrl *controllers.UploadController) {
	secureGroup.POST("/upload/evidence", ctrl.UploadEvidence)
}
