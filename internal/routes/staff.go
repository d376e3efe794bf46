package routes

import (
	"cit-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runStaffRouter(secureGroup *echo.Group, ctrl *controllers.StaffController) {
	{
		secureGroup.GET("/staff/vault-officers", ctrl.GetVaultOfficers)
		secureGroup.GET("/staff/vault-officers/available", ctrl.GetAvailableVaultOfficers)
	}
}
