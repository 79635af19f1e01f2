package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/readloom/readloom/pkg/database"
	"github.com/readloom/readloom/pkg/errcodes"
	"github.com/readloom/readloom/pkg/models"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12
	// DefaultTokenExpiry is used when no expiry is configured.
	DefaultTokenExpiry = 7 * 24 * time.Hour
)

const invalidCredentials = "Invalid email or password"

// JWTClaims represents the claims in a JWT token.
type JWTClaims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

type SignupOptions struct {
	Email    string
	Name     string
	Password string
}

// Service handles authentication operations.
type Service struct {
	db          *bun.DB
	jwtSecret   []byte
	tokenExpiry time.Duration
}

// NewService creates a new auth service.
func NewService(db *bun.DB, jwtSecret string, tokenExpiry time.Duration) *Service {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}
	return &Service{
		db:          db,
		jwtSecret:   []byte(jwtSecret),
		tokenExpiry: tokenExpiry,
	}
}

// Signup creates a new account. The first account becomes an admin, every
// later one a regular user.
func (s *Service) Signup(ctx context.Context, opts SignupOptions) (*models.User, error) {
	email := strings.TrimSpace(opts.Email)

	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("u.email = ? COLLATE NOCASE", email).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.Conflict("An account with this email already exists.")
	}

	hashedPassword, err := HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Email:        email,
		Name:         strings.TrimSpace(opts.Name),
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().Model((*models.User)(nil)).Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count == 0 {
			user.Role = models.RoleAdmin
		}

		_, err = tx.NewInsert().Model(user).Returning("*").Exec(ctx)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return errcodes.Conflict("An account with this email already exists.")
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// Login validates credentials, records a login event and returns the user.
// Unknown emails and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.email = ? COLLATE NOCASE", strings.TrimSpace(email)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.Unauthorized(invalidCredentials)
		}
		return nil, errors.WithStack(err)
	}

	if !CheckPassword(password, user.PasswordHash) {
		return nil, errcodes.Unauthorized(invalidCredentials)
	}

	event := &models.LoginEvent{
		CreatedAt: time.Now(),
		UserID:    user.ID,
	}
	_, err = s.db.NewInsert().Model(event).Exec(ctx)
	if err != nil {
		// A missing login event only skews the stats.
		logger.FromContext(ctx).Err(err).Warn("failed to record login event", logger.Data{"user_id": user.ID})
	}

	return user, nil
}

// GenerateToken creates a new JWT token for the user.
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetUserByID retrieves a user by ID.
func (s *Service) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// UpdateAvatar records the stored avatar of a user.
func (s *Service) UpdateAvatar(ctx context.Context, user *models.User, key, mimeType string) error {
	user.AvatarKey = &key
	user.AvatarMimeType = &mimeType
	user.UpdatedAt = time.Now()

	_, err := s.db.NewUpdate().
		Model(user).
		Column("avatar_key", "avatar_mime_type", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	user.HasAvatar = true
	return nil
}

// LoginsByDate counts login events per UTC calendar day between from and to,
// both inclusive and formatted as YYYY-MM-DD. Days without logins are left
// out.
func (s *Service) LoginsByDate(ctx context.Context, from, to string) ([]*models.DailyCount, error) {
	counts := []*models.DailyCount{}
	err := s.db.NewSelect().
		Model((*models.LoginEvent)(nil)).
		ColumnExpr("substr(ul.created_at, 1, 10) AS date").
		ColumnExpr("COUNT(*) AS count").
		Where("substr(ul.created_at, 1, 10) BETWEEN ? AND ?", from, to).
		GroupExpr("date").
		OrderExpr("date ASC").
		Scan(ctx, &counts)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return counts, nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}

// CheckPassword compares a password with a hash.
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
