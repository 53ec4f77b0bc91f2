// Package services реализует подбор бадди: выборка кандидатов по полу,
// возрасту и радиусу, подсчёт совместимости по ответам анкеты и
// ранжирование результата.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/VidhitSikri/BUDDY-FI/internal/lib/sl"
	"github.com/VidhitSikri/BUDDY-FI/internal/models"
)

// ErrProfileIncomplete возвращается, если у пользователя ещё нет геопозиции,
// без которой радиусный фильтр не имеет смысла.
var ErrProfileIncomplete = errors.New("user has no location set")

const (
	// Радиус поиска кандидатов в километрах.
	searchRadiusKm = 10
	// Максимальная разница в возрасте в годах, границы включительно.
	maxAgeGap = 5
	// Срок жизни закэшированного результата подбора.
	cacheTTL = 5 * time.Minute
)

// BuddyRepository описывает выборку пользователей для подбора.
type BuddyRepository interface {
	// GetUserByUID возвращает пользователя по UID или ошибку, если не найден.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)

	// FindBuddyCandidates возвращает кандидатов одним запросом:
	// другой uid, тот же пол, возраст в пределах maxAgeGap,
	// геопозиция внутри radiusKm от пользователя.
	FindBuddyCandidates(ctx context.Context, user *models.User, radiusKm float64, maxAgeGap int) ([]*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
}

// BuddyService реализует подбор совместимых пользователей с кешированием.
type BuddyService struct {
	repo  BuddyRepository
	cache Cache
	log   *slog.Logger
}

// NewBuddyService создает новый экземпляр BuddyService.
func NewBuddyService(repo BuddyRepository, cache Cache, log *slog.Logger) *BuddyService {
	return &BuddyService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// FindBuddies возвращает список кандидатов для пользователя, отсортированный
// по убыванию совместимости; при равенстве — по email по возрастанию.
// Кандидату раскрывается только email и процент совместимости.
func (s *BuddyService) FindBuddies(ctx context.Context, userUID string) ([]models.Buddy, error) {
	var cached []models.Buddy
	cacheKey := fmt.Sprintf("buddies:%s", userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.Location == nil {
		return nil, ErrProfileIncomplete
	}

	candidates, err := s.repo.FindBuddyCandidates(ctx, user, searchRadiusKm, maxAgeGap)
	if err != nil {
		return nil, err
	}

	buddies := make([]models.Buddy, 0, len(candidates))
	for _, candidate := range candidates {
		buddies = append(buddies, models.Buddy{
			Email:              candidate.Email,
			CompatibilityScore: CompatibilityScore(user.Hobbies, candidate.Hobbies),
		})
	}

	sort.Slice(buddies, func(i, j int) bool {
		if buddies[i].CompatibilityScore != buddies[j].CompatibilityScore {
			return buddies[i].CompatibilityScore > buddies[j].CompatibilityScore
		}
		return buddies[i].Email < buddies[j].Email
	})

	s.log.Info("found buddy candidates",
		slog.String("uid", userUID), slog.Int("count", len(buddies)))

	if err := s.cache.Set(cacheKey, buddies, cacheTTL); err != nil {
		s.log.Warn("failed to cache buddies", slog.String("key", cacheKey), sl.Err(err))
	}
	return buddies, nil
}

// CompatibilityScore возвращает процент совпавших слотов анкеты из семи
// фиксированных. Функция тотальна: отсутствующий или пустой слот у любой
// из сторон считается несовпадением.
func CompatibilityScore(a, b models.Hobbies) float64 {
	matched := 0
	for _, key := range models.HobbyKeys {
		answer, ok := a[key]
		if !ok || answer == "" {
			continue
		}
		if b[key] == answer {
			matched++
		}
	}
	return float64(matched) / float64(len(models.HobbyKeys)) * 100
}
