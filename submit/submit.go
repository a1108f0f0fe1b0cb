// Package submit stores what visitors send through the site: newsletter
// subscriptions and contact messages.
package submit

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrAlreadySubscribed = errors.New("email already subscribed")
)

type Subscriber struct {
	ID           uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	SubscribedAt time.Time `json:"subscribedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ContactMessage struct {
	ID        uuid.UUID `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactForm is what the contact page posts.
type ContactForm struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Notifier is told about every stored contact message.
type Notifier interface {
	Notify(ctx context.Context, m *ContactMessage) error
}

type Service struct {
	db       *gorm.DB
	validate *validator.Validate
	notifier Notifier
	now      func() time.Time
}

// Open opens the SQLite database at dsn and migrates the tables.
func Open(dsn string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot open database: %q", dsn)
	}
	return New(db)
}

// New uses an already opened database.
func New(db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(&Subscriber{}, &ContactMessage{}); err != nil {
		return nil, errors.Wrap(err, "Migrating database")
	}
	return &Service{
		db:       db,
		validate: validator.New(),
		now:      time.Now,
	}, nil
}

func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Subscribe adds email to the newsletter. Addresses are compared lowercased,
// and an address is only ever stored once, active or not.
func (s *Service) Subscribe(ctx context.Context, email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, ErrInvalidEmail
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&Subscriber{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "Cannot look up subscriber")
	}
	if count > 0 {
		return nil, ErrAlreadySubscribed
	}

	sub := &Subscriber{
		ID:           uuid.New(),
		Email:        email,
		Active:       true,
		SubscribedAt: s.now(),
	}
	if err := s.create(ctx, sub); err != nil {
		return nil, err
	}
	slog.Info("New newsletter subscriber", "id", sub.ID)
	return sub, nil
}

// create inserts sub. Losing a race against a concurrent signup for the
// same address hits the unique index and reports ErrAlreadySubscribed.
func (s *Service) create(ctx context.Context, sub *Subscriber) error {
	err := s.db.WithContext(ctx).Create(sub).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadySubscribed
	}
	return errors.Wrap(err, "Cannot store subscriber")
}

// Subscribers lists active subscribers, oldest first.
func (s *Service) Subscribers(ctx context.Context) ([]Subscriber, error) {
	var subs []Subscriber
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("subscribed_at").Find(&subs).Error
	return subs, errors.Wrap(err, "Cannot list subscribers")
}

// Unsubscribe deactivates email. Unknown addresses are not an error.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	err := s.db.WithContext(ctx).Model(&Subscriber{}).Where("email = ?", email).Update("active", false).Error
	return errors.Wrap(err, "Cannot unsubscribe")
}

// ValidationError lists the fields of a ContactForm that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// SubmitContact validates and stores f. A failing notifier is logged and
// does not fail the submission.
func (s *Service) SubmitContact(ctx context.Context, f ContactForm) (*ContactMessage, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Subject = strings.TrimSpace(f.Subject)
	f.Message = strings.TrimSpace(f.Message)

	if err := s.validate.Struct(f); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil, errors.Wrap(err, "Validating contact form")
		}
		ve := &ValidationError{}
		for _, fe := range verrs {
			ve.Fields = append(ve.Fields, strings.ToLower(fe.Field()))
		}
		return nil, ve
	}

	m := &ContactMessage{
		ID:        uuid.New(),
		Name:      f.Name,
		Email:     f.Email,
		Subject:   f.Subject,
		Message:   f.Message,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, errors.Wrap(err, "Cannot store contact message")
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, m); err != nil {
			slog.Error("Contact notification failed", "id", m.ID, "err", err)
		}
	}
	return m, nil
}

// Messages lists stored contact messages, newest first.
func (s *Service) Messages(ctx context.Context) ([]ContactMessage, error) {
	var msgs []ContactMessage
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&msgs).Error
	return msgs, errors.Wrap(err, "Cannot list contact messages")
}
