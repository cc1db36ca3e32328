package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"doctors_portal/internal/domain"
	"doctors_portal/internal/logging"
)

const msgInternal = "internal server error"

func (s *Server) handleAppointmentOptions(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	options, err := s.deps.Availability.Options(c.Request.Context(), date)
	if err != nil {
		s.logError(c, "availability_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, options)
}

func (s *Server) handleAppointmentSpecialty(c *gin.Context) {
	specialties, err := s.deps.Availability.Specialties(c.Request.Context())
	if err != nil {
		s.logError(c, "specialty_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, specialties)
}

func (s *Server) handleListBookings(c *gin.Context) {
	email := c.Query("email")
	tokenEmail := c.GetString(contextEmailKey)
	if email != tokenEmail {
		c.JSON(http.StatusForbidden, gin.H{"message": msgForbidden})
		return
	}

	bookings, err := s.deps.Bookings.ListByEmail(c.Request.Context(), email)
	if err != nil {
		s.logError(c, "bookings_list_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (s *Server) handleGetBooking(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	found, err := s.deps.Bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		s.logError(c, "booking_get_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, found)
}

func (s *Server) handleCreateBooking(c *gin.Context) {
	var b domain.Booking
	if err := c.BindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ack, err := s.deps.Bookings.Create(c.Request.Context(), b)
	if err != nil {
		s.logError(c, "booking_create_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	if !ack.Acknowledged {
		c.JSON(http.StatusOK, gin.H{"acknowledged": false, "message": ack.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": ack.Booking.ID.Hex()})
}

type paymentIntentRequest struct {
	Price float64 `json:"price"`
}

func (s *Server) handleCreatePaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Price <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be positive"})
		return
	}

	secret, err := s.deps.Payments.CreateIntent(c.Request.Context(), req.Price)
	if err != nil {
		s.logError(c, "payment_intent_failed", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment provider unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": secret})
}

func (s *Server) handleRecordPayment(c *gin.Context) {
	var p domain.Payment
	if err := c.BindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := primitive.ObjectIDFromHex(p.BookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bookingId"})
		return
	}

	inserted, err := s.deps.Payments.Record(c.Request.Context(), p)
	if err != nil {
		s.logError(c, "payment_record_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": inserted.ID.Hex()})
}

// handleIssueToken returns a signed token for an already-registered email.
// Unknown emails get 403 with an empty accessToken rather than an error body.
func (s *Server) handleIssueToken(c *gin.Context) {
	email := c.Query("email")

	_, err := s.deps.Directory.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"accessToken": ""})
			return
		}
		s.logError(c, "token_lookup_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	token, err := s.deps.Tokens.Issue(email)
	if err != nil {
		s.logError(c, "token_issue_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.deps.Directory.ListUsers(c.Request.Context())
	if err != nil {
		s.logError(c, "users_list_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (s *Server) handleRegisterUser(c *gin.Context) {
	var u domain.User
	if err := c.BindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := s.deps.Directory.Register(c.Request.Context(), u)
	if err != nil {
		s.logError(c, "user_register_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": created.ID.Hex()})
}

func (s *Server) handleIsAdmin(c *gin.Context) {
	isAdmin, err := s.deps.Directory.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		s.logError(c, "admin_lookup_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"isAdmin": isAdmin})
}

func (s *Server) handlePromoteAdmin(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	result, err := s.deps.Directory.PromoteToAdmin(c.Request.Context(), id)
	if err != nil {
		s.logError(c, "admin_promote_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListDoctors(c *gin.Context) {
	doctors, err := s.deps.Directory.ListDoctors(c.Request.Context())
	if err != nil {
		s.logError(c, "doctors_list_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, doctors)
}

func (s *Server) handleAddDoctor(c *gin.Context) {
	var d domain.Doctor
	if err := c.BindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := s.deps.Directory.AddDoctor(c.Request.Context(), d)
	if err != nil {
		s.logError(c, "doctor_add_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "insertedId": created.ID.Hex()})
}

func (s *Server) handleRemoveDoctor(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid doctor id"})
		return
	}

	if err := s.deps.Directory.RemoveDoctor(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		s.logError(c, "doctor_remove_failed", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{"acknowledged": true, "deletedCount": 1})
}

func (s *Server) logError(c *gin.Context, event string, err error) {
	s.logger.WithFields(logging.Fields{
		"event":      event,
		"request_id": c.GetString(contextRequestIDKey),
		"path":       c.Request.URL.Path,
	}).WithError(err).Error("request failed")
}
