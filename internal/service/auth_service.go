package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"shopquery-be/internal/dto"
	"shopquery-be/internal/entity"
	"shopquery-be/internal/pkg/logger"
	"shopquery-be/internal/pkg/mailer"
	"shopquery-be/internal/pkg/token"
	"shopquery-be/internal/repository/specification"
	"shopquery-be/internal/repository/unitofwork"
	"shopquery-be/pkg/events"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RefreshTTL is the sliding lifetime of a refresh session. Every
// successful rotation and every authenticated request pushes the expiry
// out by this much.
const RefreshTTL = 7 * 24 * time.Hour

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenPairResponse, error)

	// Refresh rotates a refresh credential. The presented value is consumed
	// whether or not anything else goes wrong afterwards; a value that was
	// already consumed, expired or revoked yields ErrExpiredOrRevoked.
	Refresh(ctx context.Context, refreshValue, ipAddress, userAgent string) (*dto.TokenPairResponse, error)

	// Logout revokes the session holding the refresh value. Revoking a
	// session that is already gone is not an error.
	Logout(ctx context.Context, refreshValue string) error

	// Slide extends the expiry of all the user's live sessions. It is
	// best-effort: failures are logged and never surface to the caller.
	Slide(ctx context.Context, userId uuid.UUID)

	ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionDTO, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	tokens         *token.Service
	emailService   mailer.IEmailService
	eventPublisher events.Publisher
	log            logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	tokens *token.Service,
	emailService mailer.IEmailService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		tokens:         tokens,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n), nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, _ := uow.UserRepository().FindOne(ctx, specification.Filter("email", req.Email))
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrValidation)
	}
	existing, _ = uow.UserRepository().FindOne(ctx, specification.Filter("username", req.Username))
	if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:            uuid.New(),
		Username:      req.Username,
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		PasswordHash:  string(hash),
		IsActive:      true,
		EmailVerified: false,
		CreatedAt:     time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	otpCode, err := generateOTP()
	if err != nil {
		return nil, err
	}

	verificationToken := &entity.EmailVerificationToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		Token:     otpCode,
		ExpiresAt: time.Now().Add(15 * time.Minute),
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateEmailVerificationToken(ctx, verificationToken); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendOTP(user.Email, otpCode); emailErr != nil {
			s.log.Warn("auth", "failed to send registration email", map[string]interface{}{
				"email": user.Email,
				"error": emailErr.Error(),
			})
		}
	}()

	s.publish(ctx, events.TypeUserRegistered, map[string]interface{}{
		"user_id": user.Id,
		"email":   user.Email,
	})

	return &dto.RegisterResponse{Id: user.Id, Username: user.Username, Email: user.Email}, nil
}

func (s *authService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.Filter("email", req.Email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.EmailVerified {
		return nil
	}

	tokenEntity, err := uow.UserRepository().FindEmailVerificationToken(ctx,
		specification.ByUserID{UserID: user.Id},
		specification.Filter("token", req.Token),
	)
	if err != nil {
		return err
	}
	if tokenEntity == nil {
		return fmt.Errorf("%w: invalid otp code", ErrValidation)
	}
	if time.Now().After(tokenEntity.ExpiresAt) {
		return fmt.Errorf("%w: otp code expired", ErrValidation)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.UserRepository().MarkEmailVerified(ctx, user.Id); err != nil {
		return err
	}
	_ = uow.UserRepository().DeleteEmailVerificationToken(ctx, tokenEntity.Id)

	return uow.Commit()
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.Filter("email", req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	if !user.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account disabled", ErrUnauthorized)
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Id, user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	refreshValue := s.tokens.NewRefreshValue()
	session := &entity.Session{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: token.HashRefreshValue(refreshValue),
		ExpiresAt: time.Now().Add(RefreshTTL),
		IpAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.publish(ctx, events.TypeUserLogin, map[string]interface{}{
		"user_id": user.Id,
		"device":  userAgent,
		"time":    time.Now().Format(time.RFC822),
	})

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		User:         toUserDTO(user),
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshValue, ipAddress, userAgent string) (*dto.TokenPairResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	oldHash := token.HashRefreshValue(refreshValue)
	newValue := s.tokens.NewRefreshValue()
	newHash := token.HashRefreshValue(newValue)

	rotated, err := uow.SessionRepository().RotateToken(ctx, oldHash, newHash, time.Now().Add(RefreshTTL), ipAddress, userAgent)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrExpiredOrRevoked
	}

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByTokenHash{TokenHash: newHash})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrExpiredOrRevoked
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: session.UserId})
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, ErrExpiredOrRevoked
	}

	accessToken, err := s.tokens.IssueAccessToken(user.Id, user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: newValue,
		User:         toUserDTO(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshValue string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	revoked, err := uow.SessionRepository().Revoke(ctx, token.HashRefreshValue(refreshValue))
	if err != nil {
		return err
	}
	if revoked {
		s.publish(ctx, events.TypeUserLogout, map[string]interface{}{
			"time": time.Now().Format(time.RFC822),
		})
	}
	return nil
}

func (s *authService) Slide(ctx context.Context, userId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.SessionRepository().ExtendAllForUser(ctx, userId, time.Now().Add(RefreshTTL)); err != nil {
		s.log.Warn("auth", "failed to slide session expiry", map[string]interface{}{
			"user_id": userId,
			"error":   err.Error(),
		})
	}
}

func (s *authService) ListSessions(ctx context.Context, userId uuid.UUID) ([]*dto.SessionDTO, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.NotExpired{Now: time.Now()},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionDTO, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, &dto.SessionDTO{
			Id:        sess.Id,
			IpAddress: sess.IpAddress,
			UserAgent: sess.UserAgent,
			CreatedAt: sess.CreatedAt.Format(time.RFC3339),
			ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

func (s *authService) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("auth", "failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

func toUserDTO(user *entity.User) dto.UserDTO {
	return dto.UserDTO{
		Id:        user.Id,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
