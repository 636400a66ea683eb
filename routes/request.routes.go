package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-service/handlers"
)

type RequestRouteHandler struct {
	requestHandler handlers.RequestHandler
	offerHandler   handlers.OfferHandler
	bookingHandler handlers.BookingHandler
}

func NewRequestRouteHandler(requestHandler handlers.RequestHandler, offerHandler handlers.OfferHandler, bookingHandler handlers.BookingHandler) RequestRouteHandler {
	return RequestRouteHandler{requestHandler, offerHandler, bookingHandler}
}

func (rc *RequestRouteHandler) RequestRoute(rg *gin.RouterGroup) {
	router := rg.Group("/requests")

	router.POST("/create", rc.requestHandler.CreateRequest)
	router.GET("/mine", rc.requestHandler.ListMyRequests)
	router.GET("/:requestId", rc.requestHandler.GetRequest)
	router.GET("/:requestId/deadline", rc.requestHandler.GetDeadline)
	router.PATCH("/:requestId/cancel", rc.requestHandler.CancelRequest)

	router.POST("/:requestId/offers", rc.offerHandler.SubmitOffer)
	router.GET("/:requestId/offers", rc.offerHandler.ListOffersForRequest)

	router.POST("/:requestId/accept/:offerId", rc.bookingHandler.AcceptOffer)
}
