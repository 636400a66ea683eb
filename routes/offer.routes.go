package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-service/handlers"
)

type OfferRouteHandler struct {
	offerHandler handlers.OfferHandler
}

func NewOfferRouteHandler(offerHandler handlers.OfferHandler) OfferRouteHandler {
	return OfferRouteHandler{offerHandler}
}

func (rc *OfferRouteHandler) OfferRoute(rg *gin.RouterGroup) {
	router := rg.Group("/offers")

	router.GET("/mine", rc.offerHandler.ListMyOffers)
	router.PATCH("/:offerId/revise", rc.offerHandler.ReviseOffer)
	router.PATCH("/:offerId/counter", rc.offerHandler.CounterOffer)
	router.PATCH("/:offerId/reject", rc.offerHandler.RejectOffer)
	router.PATCH("/:offerId/withdraw", rc.offerHandler.WithdrawOffer)
}
