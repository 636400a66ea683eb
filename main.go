package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"gopkg.in/natefinch/lumberjack.v2"

	"marketplace-service/config"
	"marketplace-service/handlers"
	"marketplace-service/payments"
	"marketplace-service/repository"
	"marketplace-service/routes"
	"marketplace-service/services"
)

var (
	server      *gin.Engine
	ctx         context.Context
	mongoclient *mongo.Client
	cfg         *config.Config

	requestService services.RequestService
	offerService   services.OfferService
	bookingService services.BookingService
	disputeService services.DisputeService
	packageService services.PackageService

	RequestHandler handlers.RequestHandler
	OfferHandler   handlers.OfferHandler
	BookingHandler handlers.BookingHandler
	DisputeHandler handlers.DisputeHandler
	PackageHandler handlers.PackageHandler

	RequestRouteHandler routes.RequestRouteHandler
	OfferRouteHandler   routes.OfferRouteHandler
	BookingRouteHandler routes.BookingRouteHandler
	PackageRouteHandler routes.PackageRouteHandler
)

func init() {
	ctx = context.TODO()
	cfg = config.LoadConfig()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	lumberjackLog := &lumberjack.Logger{
		Filename:  cfg.LogFilePath,
		MaxSize:   1,
		LocalTime: true,
	}
	logger.SetOutput(lumberjackLog)
	logger.WithFields(logrus.Fields{"path": "marketplace/main"}).Info("Starting marketplace service")

	mongoconn := options.Client().ApplyURI(cfg.MongoURI)
	var err error
	mongoclient, err = mongo.Connect(ctx, mongoconn)
	if err != nil {
		panic(err)
	}
	if err := mongoclient.Ping(ctx, readpref.Primary()); err != nil {
		panic(err)
	}
	logger.Info("MongoDB successfully connected...")

	tracerProvider, err := NewTracerProvider(cfg.ServiceName, cfg.JaegerAddress)
	if err != nil {
		logger.Fatalf("JaegerTraceProvider failed to Initialize. Error :%s", err)
	}
	tracer := tracerProvider.Tracer(cfg.ServiceName)

	db := mongoclient.Database(cfg.MongoDatabase)

	requestRepo := repository.NewRequestRepo(db.Collection("requests"), logger)
	offerRepo := repository.NewOfferRepo(db.Collection("offers"), logger)
	bookingRepo := repository.NewBookingRepo(db.Collection("bookings"), logger)
	disputeRepo := repository.NewDisputeRepo(db.Collection("commissionDisputes"), logger)
	packageRepo := repository.NewPackageRepo(db.Collection("packageRequests"), db.Collection("packageOffers"), logger)

	paymentGateway := payments.NewClient(cfg.PaymentGatewayURL, logger)

	requestService = services.NewRequestServiceImpl(requestRepo, logger, tracer)
	offerService = services.NewOfferServiceImpl(offerRepo, requestRepo, logger, tracer)
	bookingService = services.NewBookingServiceImpl(bookingRepo, offerRepo, requestRepo, paymentGateway, logger, tracer)
	disputeService = services.NewDisputeServiceImpl(disputeRepo, bookingRepo, logger, tracer)
	packageService = services.NewPackageServiceImpl(packageRepo, logger, tracer)

	RequestHandler = handlers.NewRequestHandler(requestService, tracer, logger)
	OfferHandler = handlers.NewOfferHandler(offerService, requestService, tracer, logger)
	BookingHandler = handlers.NewBookingHandler(bookingService, tracer, logger)
	DisputeHandler = handlers.NewDisputeHandler(disputeService, tracer, logger)
	PackageHandler = handlers.NewPackageHandler(packageService, tracer, logger)

	RequestRouteHandler = routes.NewRequestRouteHandler(RequestHandler, OfferHandler, BookingHandler)
	OfferRouteHandler = routes.NewOfferRouteHandler(OfferHandler)
	BookingRouteHandler = routes.NewBookingRouteHandler(BookingHandler, DisputeHandler)
	PackageRouteHandler = routes.NewPackageRouteHandler(PackageHandler)

	server = gin.Default()
}

func main() {
	defer mongoclient.Disconnect(ctx)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"https://localhost:4200"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Actor-Id", "X-Actor-Role")

	server.Use(cors.New(corsConfig))

	router := server.Group("/api")
	router.GET("/healthchecker", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "success", "message": "Marketplace service is running"})
	})

	RequestRouteHandler.RequestRoute(router)
	OfferRouteHandler.OfferRoute(router)
	BookingRouteHandler.BookingRoute(router)
	PackageRouteHandler.PackageRoute(router)

	err := server.Run(":" + cfg.Port)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func NewTracerProvider(serviceName, collectorEndpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(collectorEndpoint)))
	if err != nil {
		return nil, fmt.Errorf("unable to initialize exporter due: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
			semconv.DeploymentEnvironmentKey.String("development"),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp, nil
}
