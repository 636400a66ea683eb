package routes

import (
	"github.com/gin-gonic/gin"

	"marketplace-service/handlers"
)

type BookingRouteHandler struct {
	bookingHandler handlers.BookingHandler
	disputeHandler handlers.DisputeHandler
}

func NewBookingRouteHandler(bookingHandler handlers.BookingHandler, disputeHandler handlers.DisputeHandler) BookingRouteHandler {
	return BookingRouteHandler{bookingHandler, disputeHandler}
}

func (rc *BookingRouteHandler) BookingRoute(rg *gin.RouterGroup) {
	router := rg.Group("/bookings")

	router.GET("/mine", rc.bookingHandler.ListMyBookings)
	router.GET("/commissionReport", rc.bookingHandler.CommissionReport)
	router.GET("/:bookingId", rc.bookingHandler.GetBooking)
	router.PATCH("/:bookingId/cancel", rc.bookingHandler.CancelBooking)

	disputes := rg.Group("/disputes")
	disputes.POST("/open", rc.disputeHandler.OpenDispute)
	disputes.PATCH("/:disputeId/resolve", rc.disputeHandler.ResolveDispute)
	disputes.GET("/mine", rc.disputeHandler.ListMyDisputes)
}
