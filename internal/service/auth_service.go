// internal/service/auth_service.go
package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"tokentrade/internal/domain"
	"tokentrade/internal/repository"
	"tokentrade/internal/util"
	"tokentrade/pkg/db"
)

const tokenTTL = time.Hour

// Claims are the JWT claims issued on signup and login.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AuthService handles user registration and login. It issues HS256 JWTs that
// the API middleware validates to resolve the acting user.
type AuthService interface {
	Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// ValidateToken parses and verifies a token string and returns the user ID.
	ValidateToken(tokenString string) (int64, error)
}

// authService implements the AuthService interface.
type authService struct {
	dbBeginner db.DBTxBeginner
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
	jwtSecret  []byte
	beginTx    db.BeginTxFunc
	commitTx   db.CommitTxFunc
	rollbackTx db.RollbackTxFunc
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	jwtSecret []byte,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) AuthService {
	return &authService{
		dbBeginner: dbBeginner,
		dbExecutor: dbExecutor,
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		beginTx:    beginTx,
		commitTx:   commitTx,
		rollbackTx: rollbackTx,
	}
}

// Signup registers a new user and returns the user with a signed token.
func (s *authService) Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, "", util.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("signup: failed to hash password: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, "", fmt.Errorf("signup: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, "", fmt.Errorf("signup: transaction controller does not implement DBExecutor")
	}

	_, err = s.userRepo.GetUserByEmail(ctx, txExecutor, email)
	if err == nil {
		return nil, "", util.ErrDuplicateEmail
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, "", fmt.Errorf("signup: failed to check existing user: %w", err)
	}

	user := domain.NewUser(fullName, email, string(hash))
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, "", fmt.Errorf("signup: failed to create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, "", fmt.Errorf("signup: failed to commit transaction: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies the user's credentials and returns a signed token.
func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", util.ErrInvalidInput
	}

	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("login: failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken verifies the token signature and expiry and returns the
// authenticated user ID from the subject claim.
func (s *authService) ValidateToken(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, util.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, util.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, util.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, util.ErrUnauthorized
	}
	return userID, nil
}

func (s *authService) issueToken(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
