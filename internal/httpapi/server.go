// Package httpapi exposes the portal's REST surface over gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"doctors_portal/internal/auth"
	"doctors_portal/internal/domain"
	"doctors_portal/internal/feature/booking"
	"doctors_portal/internal/logging"
)

const readHeaderTimeout = 2 * time.Second

type tokenService interface {
	Issue(email string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

type availabilityService interface {
	Options(ctx context.Context, date string) ([]domain.AppointmentOption, error)
	Specialties(ctx context.Context) ([]domain.Specialty, error)
}

type bookingService interface {
	Create(ctx context.Context, b domain.Booking) (booking.Ack, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (domain.Booking, error)
}

type paymentService interface {
	CreateIntent(ctx context.Context, price float64) (string, error)
	Record(ctx context.Context, payment domain.Payment) (domain.Payment, error)
}

type directoryService interface {
	Register(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	AddDoctor(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	RemoveDoctor(ctx context.Context, id primitive.ObjectID) error
}

type mongoChecker interface {
	Ping(ctx context.Context) error
}

type statsService interface {
	CountUsers(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountDoctors(ctx context.Context) (int64, error)
}

// Deps collects everything the HTTP surface needs.
type Deps struct {
	Tokens       tokenService
	Availability availabilityService
	Bookings     bookingService
	Payments     paymentService
	Directory    directoryService
	Mongo        mongoChecker
	Stats        statsService
	Logger       *logrus.Entry
}

// Server hosts the REST API and owns the underlying HTTP server.
type Server struct {
	engine *gin.Engine
	server *http.Server
	deps   Deps
	logger *logrus.Entry
}

// NewServer constructs the gin engine, wires middleware and routes, and
// prepares an HTTP server on the provided port.
func NewServer(port int, deps Deps) (*Server, error) {
	if deps.Tokens == nil || deps.Availability == nil || deps.Bookings == nil ||
		deps.Payments == nil || deps.Directory == nil {
		return nil, errors.New("httpapi server requires all service dependencies")
	}
	if deps.Logger == nil {
		deps.Logger = logging.Logger()
	}

	srv := &Server{
		deps:   deps,
		logger: deps.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	engine.Use(srv.requestLogger())

	srv.registerRoutes(engine)

	srv.engine = engine
	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return srv, nil
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	engine.GET("/appointmentOptions", s.handleAppointmentOptions)
	engine.GET("/appointmentSpecialty", s.handleAppointmentSpecialty)

	engine.GET("/bookings", s.authenticated(), s.handleListBookings)
	engine.GET("/bookings/:id", s.handleGetBooking)
	engine.POST("/bookings", s.handleCreateBooking)

	engine.POST("/create-payment-intent", s.handleCreatePaymentIntent)
	engine.POST("/payments", s.handleRecordPayment)

	engine.GET("/jwt", s.handleIssueToken)

	engine.GET("/users", s.handleListUsers)
	engine.POST("/user", s.handleRegisterUser)
	engine.GET("/users/admin/:email", s.handleIsAdmin)
	engine.PUT("/users/admin/:id", s.authenticated(), s.requireAdmin(), s.handlePromoteAdmin)

	engine.GET("/doctors", s.authenticated(), s.requireAdmin(), s.handleListDoctors)
	engine.POST("/doctors", s.authenticated(), s.requireAdmin(), s.handleAddDoctor)
	engine.DELETE("/doctors/:id", s.authenticated(), s.requireAdmin(), s.handleRemoveDoctor)

	engine.GET("/healthz", s.handleHealth)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe starts the API server and blocks until shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.WithFields(logging.Fields{
		"event": "http_listen",
		"addr":  s.server.Addr,
	}).Info("starting http server")

	if err := s.server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			s.logger.WithField("event", "http_stopped").Info("http server stopped")
			return nil
		}

		return fmt.Errorf("http server listen: %w", err)
	}

	s.logger.WithField("event", "http_stopped").Info("http server stopped")
	return nil
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}

	return s.server.Shutdown(ctx)
}
