package routes

import (
	"cit-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runRequestRouter(secureGroup *echo.Group, ctrl *controllers.RequestController) {
	{
		secureGroup.POST("/requests", ctrl.CreateRequest)
		secureGroup.GET("/requests/pending", ctrl.GetPendingRequests)
		secureGroup.GET("/requests/in-progress", ctrl.GetInProgressRequests)
		secureGroup.GET("/requests/completed", ctrl.GetCompletedRequests)
		secureGroup.GET("/requests/all", ctrl.GetAllStaffRequests)
		secureGroup.GET("/requests/:id", ctrl.FindRequest)
		secureGroup.PATCH("/requests/:id/pickup", ctrl.ConfirmPickup)
		secureGroup.PATCH("/requests/:id/delivery", ctrl.ConfirmDelivery)
		secureGroup.PATCH("/requests/:id/vault-officer", ctrl.AssignVaultOfficer)
		secureGroup.PATCH("/requests/:id/status", ctrl.UpdateStatus)
	}
}
