package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-service/handlers"
)

type PackageRouteHandler struct {
	packageHandler handlers.PackageHandler
}

func NewPackageRouteHandler(packageHandler handlers.PackageHandler) PackageRouteHandler {
	return PackageRouteHandler{packageHandler}
}

func (rc *PackageRouteHandler) PackageRoute(rg *gin.RouterGroup) {
	router := rg.Group("/packageRequests")

	router.POST("/create", rc.packageHandler.CreateRequest)
	router.GET("/mine", rc.packageHandler.ListMyRequests)
	router.GET("/:requestId", rc.packageHandler.GetRequest)
	router.PATCH("/:requestId/cancel", rc.packageHandler.CancelRequest)

	router.POST("/:requestId/offers", rc.packageHandler.SubmitOffer)
	router.GET("/:requestId/offers", rc.packageHandler.ListOffersForRequest)
	router.POST("/:requestId/accept/:offerId", rc.packageHandler.AcceptOffer)

	offers := rg.Group("/packageOffers")
	offers.PATCH("/:offerId/revise", rc.packageHandler.ReviseOffer)
	offers.PATCH("/:offerId/reject", rc.packageHandler.RejectOffer)
	offers.PATCH("/:offerId/withdraw", rc.packageHandler.WithdrawOffer)
}
