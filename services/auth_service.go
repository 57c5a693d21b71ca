// Package services — AuthService: kayıt ve oturum iş mantığı.
//
// Kayıt iki kapıdan olur:
//   - Davet ile (RegisterWithInvitation): anahtar geçerli bir davete
//     çözülür, hesap DOĞRUDAN AKTİF açılır (ayrı aktivasyon adımı yok —
//     geçerli davet anahtarı email sahipliğinin kanıtıdır) ve davet kabul
//     edilir.
//   - Davetsiz (Register): yalnızca invite-only modu kapalıyken açıktır.
//
// Hesap oluşturma CreateUserFunc stratejisiyle değiştirilebilir — startup'ta
// bir kez enjekte edilir, çağrı başına çözülmez.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/akinalp/davet/models"
	"github.com/akinalp/davet/pkg"
	"github.com/akinalp/davet/repository"
)

// CreateUserFunc, hesap oluşturma stratejisi. Varsayılan implementasyon
// UserRepository.Create kullanır; host uygulama kendi hesap açma akışını
// (ör. harici bir kimlik sağlayıcıya yazma) buradan enjekte edebilir.
// Dönen kullanıcı aktif olmalıdır.
type CreateUserFunc func(ctx context.Context, req *models.RegisterRequest, email, passwordHash string) (*models.User, error)

// AuthResult, kayıt/giriş sonucu. Auto-login kapalıyken kayıt yalnızca
// User döner, token alanları boştur.
type AuthResult struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
}

// AuthService interface'i — dışarıya açık API.
type AuthService interface {
	// RegisterWithInvitation, davet anahtarıyla kayıt yapar.
	// Geçersiz/bulunamayan anahtar pkg.ErrNotFound döner.
	RegisterWithInvitation(ctx context.Context, key string, req *models.RegisterRequest) (*AuthResult, error)

	// Register, davetsiz kayıt yapar. Invite-only modda pkg.ErrForbidden.
	Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error)

	Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

type authService struct {
	userRepo          repository.UserRepository
	sessionRepo       repository.SessionRepository
	invitationService InvitationService
	createUser        CreateUserFunc

	jwtSecret  []byte
	accessExp  time.Duration
	refreshExp time.Duration

	inviteOnly         bool
	autoLogin          bool
	initialInvitations int
}

// NewAuthService, constructor.
// createUser nil geçilirse varsayılan strateji (UserRepository.Create +
// başlangıç kotası) kullanılır.
func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	invitationService InvitationService,
	createUser CreateUserFunc,
	jwtSecret string,
	accessExpMinutes int,
	refreshExpDays int,
	inviteOnly bool,
	autoLogin bool,
	initialInvitations int,
) AuthService {
	s := &authService{
		userRepo:           userRepo,
		sessionRepo:        sessionRepo,
		invitationService:  invitationService,
		jwtSecret:          []byte(jwtSecret),
		accessExp:          time.Duration(accessExpMinutes) * time.Minute,
		refreshExp:         time.Duration(refreshExpDays) * 24 * time.Hour,
		inviteOnly:         inviteOnly,
		autoLogin:          autoLogin,
		initialInvitations: initialInvitations,
	}

	if createUser == nil {
		createUser = s.defaultCreateUser
	}
	s.createUser = createUser

	return s
}

// defaultCreateUser, varsayılan hesap oluşturma stratejisi.
// Kullanıcı ve kota defteri repository katmanında aynı transaction'da açılır.
func (s *authService) defaultCreateUser(ctx context.Context, req *models.RegisterRequest, email, passwordHash string) (*models.User, error) {
	var displayName *string
	if req.DisplayName != "" {
		displayName = &req.DisplayName
	}

	user := &models.User{
		Username:     req.Username,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}

	if err := s.userRepo.Create(ctx, user, s.initialInvitations); err != nil {
		return nil, err // ErrAlreadyExists olabilir
	}

	return user, nil
}

func (s *authService) RegisterWithInvitation(ctx context.Context, key string, req *models.RegisterRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Anahtarı geçerli davete çöz — süresi dolmuşsa Find zaten temizleyip
	// ErrNotFound döner.
	inv, err := s.invitationService.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Hesap davetin verildiği email ile açılır — request'teki email yoksayılır.
	user, err := s.createUser(ctx, req, inv.Email, string(hash))
	if err != nil {
		return nil, err
	}

	// Kabul: defter güncellenir, olay yayınlanır, davet bağlanır/silinir.
	if err := s.invitationService.Accept(ctx, inv, user.ID); err != nil {
		return nil, err
	}

	return s.finishRegistration(ctx, user)
}

func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if s.inviteOnly {
		return nil, fmt.Errorf("%w: registration is by invitation only", pkg.ErrForbidden)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !models.EmailRegex().MatchString(email) {
		return nil, fmt.Errorf("%w: a valid email is required", pkg.ErrBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.createUser(ctx, req, email, string(hash))
	if err != nil {
		return nil, err
	}

	return s.finishRegistration(ctx, user)
}

// finishRegistration, auto-login politikasını uygular.
func (s *authService) finishRegistration(ctx context.Context, user *models.User) (*AuthResult, error) {
	if !s.autoLogin {
		user.PasswordHash = ""
		return &AuthResult{User: *user}, nil
	}
	return s.generateTokens(ctx, user)
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	// Sentinel hesabın şifresi yoktur — boş hash hiçbir şifreyle eşleşmez,
	// yine de bcrypt'e sokmadan reddet.
	if user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%w: invalid username or password", pkg.ErrUnauthorized)
	}

	return s.generateTokens(ctx, user)
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", pkg.ErrUnauthorized)
		}
		return nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		if delErr := s.sessionRepo.DeleteByID(ctx, session.ID); delErr != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", delErr)
		}
		return nil, fmt.Errorf("%w: refresh token expired", pkg.ErrUnauthorized)
	}

	// Rotate: eski oturum silinir, yenisi açılır.
	if err := s.sessionRepo.DeleteByID(ctx, session.ID); err != nil {
		return nil, fmt.Errorf("failed to delete old session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return s.generateTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.sessionRepo.DeleteByID(ctx, session.ID)
}

func (s *authService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", pkg.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token claims", pkg.ErrUnauthorized)
	}

	return claims, nil
}

// ─── Private Helpers ───

func (s *authService) generateTokens(ctx context.Context, user *models.User) (*AuthResult, error) {
	now := time.Now()
	accessClaims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "davet",
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshBytes := make([]byte, 32)
	if _, err := rand.Read(refreshBytes); err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	refreshString := hex.EncodeToString(refreshBytes)

	session := &models.Session{
		ID:           uuid.NewString(),
		UserID:       user.ID,
		RefreshToken: refreshString,
		ExpiresAt:    now.Add(s.refreshExp),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	user.PasswordHash = ""

	return &AuthResult{
		User:         *user,
		AccessToken:  accessString,
		RefreshToken: refreshString,
	}, nil
}
