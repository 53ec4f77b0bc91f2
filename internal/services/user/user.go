// Package services содержит логику бизнес-уровня для работы с пользователями:
// регистрация, вход, ответы анкеты, геопозиция и транзитное хранилище сессий.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/VidhitSikri/BUDDY-FI/internal/lib/password"
	"github.com/VidhitSikri/BUDDY-FI/internal/lib/sl"
	"github.com/VidhitSikri/BUDDY-FI/internal/models"
	"github.com/VidhitSikri/BUDDY-FI/internal/rabbitmq"
)

// ErrInvalidCredentials возвращается при неизвестном email или неверном пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrIncompleteHobbies возвращается, если карта ответов не содержит
// ровно семь фиксированных слотов с непустыми значениями.
var ErrIncompleteHobbies = errors.New("hobbies must contain all seven answers")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// UpdateHobbies перезаписывает ответы анкеты и возвращает обновлённый профиль.
	UpdateHobbies(ctx context.Context, email string, hobbies models.Hobbies) (*models.User, error)

	// UpdateLocation записывает пару координат и возвращает обновлённый профиль.
	UpdateLocation(ctx context.Context, email string, longitude, latitude float64) (*models.User, error)
}

// SessionStore описывает транзитное хранилище данных пользователя в памяти процесса.
type SessionStore interface {
	Set(userID string, data any)
	Get(userID string) (any, bool)
}

// Cache описывает методы кэша, нужные для инвалидации результатов подбора.
type Cache interface {
	Invalidate(key string) error
}

// EventPublisher публикует события сервиса в брокер.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// RegisterData — проверенные данные регистрации нового пользователя.
type RegisterData struct {
	Name     string
	Email    string
	Password string
	Age      int
	Gender   string
}

// UserService реализует регистрацию, вход и обновление профиля.
type UserService struct {
	repo     UserRepository
	sessions SessionStore
	cache    Cache
	events   EventPublisher
	log      *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
// events может быть nil, тогда публикация событий отключена.
func NewUserService(repo UserRepository, sessions SessionStore, cache Cache, events EventPublisher, log *slog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		sessions: sessions,
		cache:    cache,
		events:   events,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и публикует
// событие о регистрации. Возвращает созданный профиль.
func (s *UserService) Register(ctx context.Context, data RegisterData) (*models.User, error) {
	hashed, err := password.GetHash(data.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{
		UID:          uuid.NewString(),
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: hashed,
		Age:          data.Age,
		Gender:       data.Gender,
	}
	uid, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	user.UID = uid
	s.log.Info("registered new user", slog.String("uid", uid))

	if s.events != nil {
		event := models.UserRegisteredEvent{UID: user.UID, Name: user.Name, Email: user.Email}
		if err := s.events.Publish(rabbitmq.WelcomeRoutingKey, event); err != nil {
			s.log.Warn("failed to publish registration event", sl.Err(err))
		}
	}
	return &user, nil
}

// Login проверяет пароль пользователя и кладёт профиль в транзитное
// хранилище под его UID. Возвращает профиль без различения
// "нет пользователя" и "неверный пароль".
func (s *UserService) Login(ctx context.Context, email, rawPassword string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.sessions.Set(user.UID, user)
	s.log.Info("user logged in", slog.String("uid", user.UID))
	return user, nil
}

// SubmitHobbies перезаписывает ответы анкеты пользователя. Карта обязана
// содержать ровно семь фиксированных слотов с непустыми значениями.
func (s *UserService) SubmitHobbies(ctx context.Context, email string, hobbies models.Hobbies) error {
	if len(hobbies) != len(models.HobbyKeys) {
		return ErrIncompleteHobbies
	}
	for _, key := range models.HobbyKeys {
		if hobbies[key] == "" {
			return ErrIncompleteHobbies
		}
	}

	user, err := s.repo.UpdateHobbies(ctx, email, hobbies)
	if err != nil {
		return err
	}
	s.invalidateBuddies(user.UID)
	s.log.Info("updated hobbies", slog.String("uid", user.UID))
	return nil
}

// UpdateLocation записывает пару координат пользователя.
func (s *UserService) UpdateLocation(ctx context.Context, email string, longitude, latitude float64) (*models.Location, error) {
	user, err := s.repo.UpdateLocation(ctx, email, longitude, latitude)
	if err != nil {
		return nil, err
	}
	s.invalidateBuddies(user.UID)
	s.log.Info("updated location", slog.String("uid", user.UID))
	return user.Location, nil
}

// List возвращает всех зарегистрированных пользователей.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// SessionUser возвращает данные пользователя из транзитного хранилища.
func (s *UserService) SessionUser(userID string) (any, bool) {
	return s.sessions.Get(userID)
}

// Смена ответов или координат меняет результат подбора, кеш устаревает.
func (s *UserService) invalidateBuddies(uid string) {
	cacheKey := fmt.Sprintf("buddies:%s", uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate buddy cache", slog.String("key", cacheKey), sl.Err(err))
	}
}
