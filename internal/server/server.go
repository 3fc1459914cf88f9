package server

import (
	"strings"

	"github.com/arzan03/DoctorsPortal/internal/handlers"
	"github.com/arzan03/DoctorsPortal/internal/middleware"
	"github.com/arzan03/DoctorsPortal/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Deps holds everything the HTTP layer needs.
type Deps struct {
	Log          zerolog.Logger
	CORSOrigins  []string
	Auth         *services.AuthService
	Availability *services.AvailabilityService
	Bookings     *services.BookingService
	Payments     *services.PaymentService
	Directory    *services.DirectoryService
	TokenLimiter *middleware.RateLimiter
}

// New builds the Fiber app with every portal route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "doctors-portal",
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	origins := "*"
	if len(d.CORSOrigins) > 0 {
		origins = strings.Join(d.CORSOrigins, ",")
	}

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.Logger(d.Log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	h := handlers.New(d.Auth, d.Availability, d.Bookings, d.Payments, d.Directory)
	verifyJWT := middleware.AuthMiddleware(d.Auth)
	verifyAdmin := middleware.AdminMiddleware(d.Auth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("doctors portal server is running")
	})

	app.Get("/appoinmentOption", h.ListAvailableOptions)
	app.Get("/v2/appoinmentOption", h.ListAvailableOptionsV2)
	app.Get("/appoinmentSpecialty", h.ListSpecialties)

	app.Get("/bookings", verifyJWT, h.ListBookings)
	app.Get("/bookings/:id", h.GetBooking)
	app.Post("/bookings", h.CreateBooking)

	app.Post("/create-payment-intent", h.CreatePaymentIntent)
	app.Post("/payments", h.RecordPayment)

	if d.TokenLimiter != nil {
		app.Get("/jwt", middleware.RateLimit(d.TokenLimiter), h.IssueToken)
	} else {
		app.Get("/jwt", h.IssueToken)
	}

	app.Get("/users", h.ListUsers)
	app.Get("/users/admin/:email", h.IsAdmin)
	app.Post("/users", h.CreateUser)
	app.Put("/users/admin/:id", verifyJWT, verifyAdmin, h.PromoteToAdmin)

	doctors := app.Group("/doctors", verifyJWT, verifyAdmin)
	doctors.Get("/", h.ListDoctors)
	doctors.Post("/", h.CreateDoctor)
	doctors.Delete("/:id", h.DeleteDoctor)

	return app
}
