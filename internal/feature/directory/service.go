// Package directory manages user registration, the admin role, and the
// doctor roster.
package directory

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"doctors_portal/internal/domain"
	"doctors_portal/internal/logging"
)

type userStore interface {
	Insert(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error)
}

type doctorStore interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	Insert(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Service owns the user and doctor directories.
type Service struct {
	users   userStore
	doctors doctorStore
	logger  *logrus.Entry
}

// NewService constructs a directory Service.
func NewService(users userStore, doctors doctorStore, logger *logrus.Entry) *Service {
	if logger == nil {
		logger = logging.Logger()
	}

	return &Service{
		users:   users,
		doctors: doctors,
		logger:  logger,
	}
}

// Register inserts a user record unconditionally. No duplicate-email check
// is performed; the original system allows duplicates and so does this one.
func (s *Service) Register(ctx context.Context, user domain.User) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return domain.User{}, errors.New("context is required")
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return domain.User{}, err
	}

	s.logger.WithFields(logging.Fields{
		"event": "user_registered",
		"email": created.Email,
	}).Info("registered user")

	return created, nil
}

// FindByEmail fetches a user record; domain.ErrNotFound when absent.
func (s *Service) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if s == nil || s.users == nil {
		return domain.User{}, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return domain.User{}, errors.New("context is required")
	}

	return s.users.FindByEmail(ctx, email)
}

// ListUsers returns every registered user.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	if s == nil || s.users == nil {
		return nil, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	return s.users.List(ctx)
}

// IsAdmin reports whether the email maps to an admin user. A missing user is
// simply not an admin; absence never errors.
func (s *Service) IsAdmin(ctx context.Context, email string) (bool, error) {
	if s == nil || s.users == nil {
		return false, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return false, errors.New("context is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return user.Role == domain.RoleAdmin, nil
}

// PromoteToAdmin sets role=admin on the user with the given id, creating the
// record when absent. Users are never demoted.
func (s *Service) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	if s == nil || s.users == nil {
		return nil, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	result, err := s.users.PromoteToAdmin(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logging.Fields{
		"event":   "user_promoted",
		"user_id": id.Hex(),
	}).Info("promoted user to admin")

	return result, nil
}

// ListDoctors returns the doctor roster.
func (s *Service) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	if s == nil || s.doctors == nil {
		return nil, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	return s.doctors.List(ctx)
}

// AddDoctor inserts a doctor profile.
func (s *Service) AddDoctor(ctx context.Context, doctor domain.Doctor) (domain.Doctor, error) {
	if s == nil || s.doctors == nil {
		return domain.Doctor{}, errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return domain.Doctor{}, errors.New("context is required")
	}

	created, err := s.doctors.Insert(ctx, doctor)
	if err != nil {
		return domain.Doctor{}, err
	}

	s.logger.WithFields(logging.Fields{
		"event": "doctor_added",
		"name":  created.Name,
	}).Info("added doctor")

	return created, nil
}

// RemoveDoctor deletes a doctor by id; domain.ErrNotFound when absent.
func (s *Service) RemoveDoctor(ctx context.Context, id primitive.ObjectID) error {
	if s == nil || s.doctors == nil {
		return errors.New("directory service is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.WithFields(logging.Fields{
		"event":     "doctor_removed",
		"doctor_id": id.Hex(),
	}).Info("removed doctor")

	return nil
}
