package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"pharmacy-system/internal/controllers"
	"pharmacy-system/internal/services"
	"pharmacy-system/pkg/middleware"
)

func runBranchRouter(secureGroup *echo.Group, branchService services.BranchServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	branchCtrl := controllers.NewBranchController(branchService, logger)
	{
		secureGroup.GET("/branches", branchCtrl.GetBranches)
		secureGroup.GET("/branches/active", branchCtrl.GetActiveBranches)
		secureGroup.GET("/branch/:id", branchCtrl.FindBranch)
	}
	{
		secureGroup.POST("/branch", branchCtrl.CreateBranch, authMW.AdminOnly)
		secureGroup.PUT("/branch/:id", branchCtrl.UpdateBranch, authMW.AdminOnly)
		secureGroup.PUT("/branch/:id/status", branchCtrl.UpdateBranchStatus, authMW.AdminOnly)
		secureGroup.DELETE("/branch/:id", branchCtrl.DeleteBranch, authMW.AdminOnly)
	}
}
