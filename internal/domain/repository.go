package domain

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound reports that no document matched the query.
var ErrNotFound = errors.New("document not found")

type findCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type bookingCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type userCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type doctorCollection interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type insertCollection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// AppointmentRepository reads the appointment option catalog.
type AppointmentRepository struct {
	collection findCollection
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(collection findCollection) *AppointmentRepository {
	return &AppointmentRepository{collection: collection}
}

// List returns every appointment option; the catalog is date-agnostic.
func (r *AppointmentRepository) List(ctx context.Context) ([]AppointmentOption, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("appointment repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find appointment options: %w", err)
	}
	defer cursor.Close(ctx)

	var result []AppointmentOption
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode appointment options: %w", err)
	}

	return result, nil
}

// ListNames returns the name-only projection of the catalog.
func (r *AppointmentRepository) ListNames(ctx context.Context) ([]Specialty, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("appointment repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"name": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find specialties: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Specialty
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode specialties: %w", err)
	}

	return result, nil
}

// BookingRepository persists and retrieves bookings in MongoDB.
type BookingRepository struct {
	collection bookingCollection
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(collection bookingCollection) *BookingRepository {
	return &BookingRepository{collection: collection}
}

// Insert stores a booking, assigning an id when one is not supplied.
func (r *BookingRepository) Insert(ctx context.Context, booking Booking) (Booking, error) {
	if r == nil || r.collection == nil {
		return Booking{}, errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return Booking{}, errors.New("context is required")
	}
	if booking.Email == "" {
		return Booking{}, errors.New("email is required")
	}
	if booking.ID.IsZero() {
		booking.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return Booking{}, fmt.Errorf("insert booking: %w", err)
	}

	return booking, nil
}

// FindByDate returns all bookings on the given appointment date.
func (r *BookingRepository) FindByDate(ctx context.Context, date string) ([]Booking, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{"appointmentDate": date})
	if err != nil {
		return nil, fmt.Errorf("find bookings by date: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Booking
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	return result, nil
}

// FindByEmail returns all bookings made by the given email.
func (r *BookingRepository) FindByEmail(ctx context.Context, email string) ([]Booking, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("find bookings by email: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Booking
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	return result, nil
}

// GetByID fetches one booking by its object id.
func (r *BookingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (Booking, error) {
	if r == nil || r.collection == nil {
		return Booking{}, errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return Booking{}, errors.New("context is required")
	}

	result := r.collection.FindOne(ctx, bson.M{"_id": id})
	if result == nil {
		return Booking{}, errors.New("find booking returned no result")
	}

	var booking Booking
	if err := result.Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("decode booking: %w", err)
	}

	return booking, nil
}

// Exists reports whether a booking already exists for the
// (date, email, treatment) tuple. This is a point-in-time check only; a
// concurrent insert between Exists and Insert can still produce a duplicate.
func (r *BookingRepository) Exists(ctx context.Context, date, email, treatment string) (bool, error) {
	if r == nil || r.collection == nil {
		return false, errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return false, errors.New("context is required")
	}

	result := r.collection.FindOne(ctx, bson.M{
		"appointmentDate": date,
		"email":           email,
		"treatment":       treatment,
	})
	if result == nil {
		return false, errors.New("find booking returned no result")
	}

	var existing Booking
	if err := result.Decode(&existing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("decode booking: %w", err)
	}

	return true, nil
}

// MarkPaid flags the booking as paid and records the transaction id.
func (r *BookingRepository) MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) error {
	if r == nil || r.collection == nil {
		return errors.New("booking repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	update := bson.M{
		"$set": bson.M{
			"paid":          true,
			"transactionId": transactionID,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("mark booking paid: %w", err)
	}
	if result != nil && result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// UserRepository persists and retrieves portal users in MongoDB.
type UserRepository struct {
	collection userCollection
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(collection userCollection) *UserRepository {
	return &UserRepository{collection: collection}
}

// Insert stores a user record unconditionally; duplicate emails are possible
// and tolerated.
func (r *UserRepository) Insert(ctx context.Context, user User) (User, error) {
	if r == nil || r.collection == nil {
		return User{}, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return User{}, errors.New("context is required")
	}
	if user.Email == "" {
		return User{}, errors.New("email is required")
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindByEmail fetches a user by email; ErrNotFound when absent.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	if r == nil || r.collection == nil {
		return User{}, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return User{}, errors.New("context is required")
	}

	result := r.collection.FindOne(ctx, bson.M{"email": email})
	if result == nil {
		return User{}, errors.New("find user returned no result")
	}

	var user User
	if err := result.Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("decode user: %w", err)
	}

	return user, nil
}

// List returns every user record.
func (r *UserRepository) List(ctx context.Context) ([]User, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var result []User
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return result, nil
}

// PromoteToAdmin sets role=admin on the user with the given id, creating the
// record when absent (upsert semantics, matching on _id).
func (r *UserRepository) PromoteToAdmin(ctx context.Context, id primitive.ObjectID) (*mongo.UpdateResult, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("user repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": RoleAdmin}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("promote user: %w", err)
	}

	return result, nil
}

// DoctorRepository persists and retrieves the doctor roster in MongoDB.
type DoctorRepository struct {
	collection doctorCollection
}

// NewDoctorRepository constructs a DoctorRepository.
func NewDoctorRepository(collection doctorCollection) *DoctorRepository {
	return &DoctorRepository{collection: collection}
}

// List returns every doctor on the roster.
func (r *DoctorRepository) List(ctx context.Context) ([]Doctor, error) {
	if r == nil || r.collection == nil {
		return nil, errors.New("doctor repository is not initialized")
	}
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find doctors: %w", err)
	}
	defer cursor.Close(ctx)

	var result []Doctor
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode doctors: %w", err)
	}

	return result, nil
}

// Insert stores a doctor profile.
func (r *DoctorRepository) Insert(ctx context.Context, doctor Doctor) (Doctor, error) {
	if r == nil || r.collection == nil {
		return Doctor{}, errors.New("doctor repository is not initialized")
	}
	if ctx == nil {
		return Doctor{}, errors.New("context is required")
	}
	if doctor.Name == "" {
		return Doctor{}, errors.New("name is required")
	}
	if doctor.ID.IsZero() {
		doctor.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, doctor); err != nil {
		return Doctor{}, fmt.Errorf("insert doctor: %w", err)
	}

	return doctor, nil
}

// Delete removes a doctor by id; ErrNotFound when nothing matched.
func (r *DoctorRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if r == nil || r.collection == nil {
		return errors.New("doctor repository is not initialized")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	if result != nil && result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

// PaymentRepository appends payment records in MongoDB. Payments are never
// updated or deleted.
type PaymentRepository struct {
	collection insertCollection
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(collection insertCollection) *PaymentRepository {
	return &PaymentRepository{collection: collection}
}

// Insert stores a payment record.
func (r *PaymentRepository) Insert(ctx context.Context, payment Payment) (Payment, error) {
	if r == nil || r.collection == nil {
		return Payment{}, errors.New("payment repository is not initialized")
	}
	if ctx == nil {
		return Payment{}, errors.New("context is required")
	}
	if payment.BookingID == "" {
		return Payment{}, errors.New("bookingId is required")
	}
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}

	if _, err := r.collection.InsertOne(ctx, payment); err != nil {
		return Payment{}, fmt.Errorf("insert payment: %w", err)
	}

	return payment, nil
}
