package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VidhitSikri/BUDDY-FI/internal/models"
)

func testHobbies(answer string) models.Hobbies {
	h := make(models.Hobbies, len(models.HobbyKeys))
	for _, key := range models.HobbyKeys {
		h[key] = answer
	}
	return h
}

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := GetTestUser()

	uid, err := storage.CreateUser(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, user.UID, uid)

	var count int
	err = storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE uid = $1", uid).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_CreateUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	first := GetTestUser()
	_, err := storage.CreateUser(context.Background(), first)
	require.NoError(t, err)

	second := GetTestUser()
	second.UID = uuid.New().String()
	second.Email = first.Email

	_, err = storage.CreateUser(context.Background(), second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := uuid.New().String()
	factory.CreateUser(t, uid, "Alice", "alice@example.com", "hashedpassword", 25, "F")

	got, err := storage.GetUserByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "Alice", got.Name)
	assert.Equal(t, "hashedpassword", got.PasswordHash)
	assert.Equal(t, 25, got.Age)
	assert.Equal(t, "F", got.Gender)
	assert.Nil(t, got.Hobbies)
	assert.Nil(t, got.Location)

	_, err = storage.GetUserByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_GetUserByUID(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := uuid.New().String()
	factory.CreateUserWithProfile(t, uid, "Alice", "alice@example.com", 25, "F",
		testHobbies("A"), 24.7536, 59.4370)

	got, err := storage.GetUserByUID(context.Background(), uid)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, testHobbies("A"), got.Hobbies)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 24.7536, got.Location.Longitude, 1e-9)
	assert.InDelta(t, 59.4370, got.Location.Latitude, 1e-9)

	_, err = storage.GetUserByUID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_ListUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	factory.CreateUser(t, uuid.New().String(), "Alice", "alice@example.com", "hash1", 25, "F")
	factory.CreateUser(t, uuid.New().String(), "Bob", "bob@example.com", "hash2", 30, "M")

	users, err := storage.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStorage_UpdateHobbies(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := uuid.New().String()
	factory.CreateUser(t, uid, "Alice", "alice@example.com", "hash", 25, "F")

	got, err := storage.UpdateHobbies(context.Background(), "alice@example.com", testHobbies("B"))
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, testHobbies("B"), got.Hobbies)

	// Повторная отправка перезаписывает ответы целиком
	got, err = storage.UpdateHobbies(context.Background(), "alice@example.com", testHobbies("C"))
	require.NoError(t, err)
	assert.Equal(t, testHobbies("C"), got.Hobbies)

	_, err = storage.UpdateHobbies(context.Background(), "ghost@example.com", testHobbies("B"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_UpdateLocation(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := uuid.New().String()
	factory.CreateUser(t, uid, "Alice", "alice@example.com", "hash", 25, "F")

	got, err := storage.UpdateLocation(context.Background(), "alice@example.com", 24.7536, 59.4370)
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	require.NotNil(t, got.Location)
	assert.InDelta(t, 24.7536, got.Location.Longitude, 1e-9)
	assert.InDelta(t, 59.4370, got.Location.Latitude, 1e-9)

	_, err = storage.UpdateLocation(context.Background(), "ghost@example.com", 1, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestStorage_FindBuddyCandidates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	// Один градус широты — примерно 111 км, поэтому смещение на 0.0889
	// градуса даёт около 9.9 км, а на 0.0989 — около 11 км.
	const (
		baseLon = 24.0
		baseLat = 59.0
	)

	requesterUID := uuid.New().String()
	factory.CreateUserWithProfile(t, requesterUID, "Me", "me@example.com", 30, "F",
		testHobbies("A"), baseLon, baseLat)

	nearUID := uuid.New().String()
	factory.CreateUserWithProfile(t, nearUID, "Near", "near@example.com", 30, "F",
		testHobbies("A"), baseLon, baseLat+0.0889)

	factory.CreateUserWithProfile(t, uuid.New().String(), "Far", "far@example.com", 30, "F",
		testHobbies("A"), baseLon, baseLat+0.0989)

	edgeAgeUID := uuid.New().String()
	factory.CreateUserWithProfile(t, edgeAgeUID, "EdgeAge", "edgeage@example.com", 35, "F",
		testHobbies("A"), baseLon, baseLat)

	factory.CreateUserWithProfile(t, uuid.New().String(), "TooOld", "tooold@example.com", 36, "F",
		testHobbies("A"), baseLon, baseLat)

	factory.CreateUserWithProfile(t, uuid.New().String(), "OtherGender", "othergender@example.com", 30, "M",
		testHobbies("A"), baseLon, baseLat)

	factory.CreateUser(t, uuid.New().String(), "NoLocation", "nolocation@example.com", "hash", 30, "F")

	requester, err := storage.GetUserByUID(context.Background(), requesterUID)
	require.NoError(t, err)

	got, err := storage.FindBuddyCandidates(context.Background(), requester, 10, 5)
	require.NoError(t, err)

	emails := make([]string, 0, len(got))
	for _, u := range got {
		emails = append(emails, u.Email)
	}

	// В выборке только кандидаты в радиусе 10 км, того же пола,
	// с разницей в возрасте не больше 5 лет; сам пользователь исключён
	assert.Equal(t, []string{"edgeage@example.com", "near@example.com"}, emails)
}
