package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/VidhitSikri/BUDDY-FI/internal/models"
)

// Средний радиус Земли в километрах, используется при переводе
// километров в радианы центрального угла для фильтра по расстоянию.
const earthRadiusKm = 6378.1

const userColumns = `uid, name, email, password_hash, age, gender, hobbies,
			      longitude, latitude, created_at`

// CreateUser сохраняет нового пользователя в базу данных и возвращает его UID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	hobbies, err := marshalHobbies(user.Hobbies)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newUID string
	query := `INSERT INTO users (uid, name, email, password_hash, age, gender, hobbies)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.UID, user.Name, user.Email, user.PasswordHash, user.Age, user.Gender,
		hobbies).Scan(&newUID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByUID возвращает пользователя по его UID.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех зарегистрированных пользователей.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateHobbies перезаписывает ответы анкеты пользователя и возвращает
// обновлённый профиль.
func (s *Storage) UpdateHobbies(ctx context.Context, email string, hobbies models.Hobbies) (*models.User, error) {
	const op = "storage.UpdateHobbies"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	raw, err := marshalHobbies(hobbies)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE users
			  SET hobbies = $1
			  WHERE email = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, raw, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateLocation записывает геопозицию пользователя. Долгота и широта
// обновляются одним запросом, чтобы пара всегда оставалась согласованной.
func (s *Storage) UpdateLocation(ctx context.Context, email string, longitude, latitude float64) (*models.User, error) {
	const op = "storage.UpdateLocation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET longitude = $1,
			      latitude = $2
			  WHERE email = $3
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, longitude, latitude, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindBuddyCandidates выбирает кандидатов одним запросом: исключается сам
// пользователь, пол совпадает, возраст в пределах maxAgeGap лет, а геопозиция
// лежит внутри сферического сегмента радиусом radiusKm вокруг пользователя.
// Расстояние считается по дуге большого круга; радиус переводится в радианы
// делением на средний радиус Земли, как в геофильтрах документных БД.
func (s *Storage) FindBuddyCandidates(ctx context.Context, user *models.User, radiusKm float64, maxAgeGap int) ([]*models.User, error) {
	const op = "storage.FindBuddyCandidates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid <> $1
			    AND gender = $2
			    AND age BETWEEN $3 AND $4
			    AND longitude IS NOT NULL
			    AND latitude IS NOT NULL
			    AND acos(least(1.0, greatest(-1.0,
			          sin(radians($5)) * sin(radians(latitude)) +
			          cos(radians($5)) * cos(radians(latitude)) *
			          cos(radians(longitude) - radians($6))
			        ))) <= $7
			  ORDER BY email`
	rows, err := s.DB.QueryContext(ctx, query,
		user.UID, user.Gender, user.Age-maxAgeGap, user.Age+maxAgeGap,
		user.Location.Latitude, user.Location.Longitude, radiusKm/earthRadiusKm)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var hobbies []byte
	var longitude, latitude sql.NullFloat64

	if err := row.Scan(&u.UID, &u.Name, &u.Email, &u.PasswordHash, &u.Age,
		&u.Gender, &hobbies, &longitude, &latitude, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if len(hobbies) > 0 {
		if err := json.Unmarshal(hobbies, &u.Hobbies); err != nil {
			return nil, err
		}
	}
	if longitude.Valid && latitude.Valid {
		u.Location = &models.Location{
			Longitude: longitude.Float64,
			Latitude:  latitude.Float64,
		}
	}
	return u, nil
}

func marshalHobbies(hobbies models.Hobbies) (any, error) {
	if hobbies == nil {
		return nil, nil
	}
	raw, err := json.Marshal(hobbies)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
