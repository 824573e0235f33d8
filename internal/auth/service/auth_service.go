package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlibekovAA/credential-service/internal/auth/domain"
	"github.com/AlibekovAA/credential-service/internal/auth/repository"
	"github.com/AlibekovAA/credential-service/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/credential-service/internal/common/crypto"
	"github.com/AlibekovAA/credential-service/internal/common/logger"
)

type AuthServiceDeps struct {
	Store       repository.CredentialStore
	Hasher      commoncrypto.PasswordHasher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

// AuthService registers and authenticates users. It keeps no per-request
// state; concurrent calls only share the injected collaborators.
type AuthService struct {
	store       repository.CredentialStore
	validator   CredentialValidator
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger

	decoyOnce sync.Once
	decoyHash string
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	if deps.IDGenerator == nil {
		deps.IDGenerator = commoncrypto.NewUUIDGenerator()
	}
	if deps.Clock == nil {
		deps.Clock = clock.NewRealClock()
	}
	return &AuthService{
		store:       deps.Store,
		validator:   NewCredentialValidator(),
		hasher:      deps.Hasher,
		idGenerator: deps.IDGenerator,
		clock:       deps.Clock,
		log:         deps.Log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

// AuthResult describes how an attempt ended. Username is set on success,
// Reason on rejection. It never carries a password or a hash.
type AuthResult struct {
	Outcome  domain.Outcome
	Username string
	Reason   string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	fields := logger.Fields{
		"username": input.Username,
		"email":    input.Email,
	}

	s.log.WithFields(ctx, withAction(fields, "register_attempt")).Info("register attempt")

	valid, err := s.validator.Validate(input)
	if err != nil {
		s.log.WithFields(ctx, withAction(fields, "register_validation_failed")).Warnf("register validation failed: %v", err)
		return s.rejectRegistration(err)
	}

	_, err = s.store.FindByUsernameOrEmail(ctx, valid.Username, valid.Email)
	switch {
	case err == nil:
		s.log.WithFields(ctx, withAction(fields, "register_identity_exists")).Warn("register failed: identity already exists")
		return s.rejectRegistration(ErrIdentityTaken)
	case !errors.Is(err, repository.ErrUserNotFound):
		s.log.WithFields(ctx, withAction(fields, "register_lookup_failed")).Errorf("register failed: identity lookup error: %v", err)
		return s.rejectRegistration(ErrInternal)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(valid.Password)
	observePasswordHash("hash", start)
	if err != nil {
		s.log.WithFields(ctx, withAction(fields, "register_hash_failed")).Errorf("register failed: password hash error: %v", err)
		return s.rejectRegistration(ErrInternal)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		s.log.WithFields(ctx, withAction(fields, "register_id_generation_failed")).Errorf("register failed: id generation error: %v", err)
		return s.rejectRegistration(ErrInternal)
	}

	user := domain.User{
		ID:           domain.UserID(id),
		Username:     valid.Username,
		Email:        valid.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.store.Save(ctx, user); err != nil {
		if errors.Is(err, repository.ErrIdentityAlreadyExists) {
			s.log.WithFields(ctx, withAction(fields, "register_identity_exists")).Warn("register failed: identity claimed concurrently")
			return s.rejectRegistration(ErrIdentityTaken)
		}
		s.log.WithFields(ctx, withAction(fields, "register_save_failed")).Errorf("register failed: save error: %v", err)
		return s.rejectRegistration(ErrInternal)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	recordRegistration(domain.OutcomeSuccess)
	return AuthResult{Outcome: domain.OutcomeSuccess, Username: user.Username}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	fields := logger.Fields{"username": input.Username}

	s.log.WithFields(ctx, withAction(fields, "login_attempt")).Info("login attempt")

	user, err := s.store.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.burnDecoyCompare(input.Password)
			s.log.WithFields(ctx, withAction(fields, "login_user_not_found")).Warn("login failed: not found")
			return s.rejectLogin(ErrInvalidCredentials)
		}
		s.log.WithFields(ctx, withAction(fields, "login_fetch_failed")).Errorf("login failed: %v", err)
		return s.rejectLogin(ErrInternal)
	}

	start := time.Now()
	err = s.hasher.Compare(user.PasswordHash, input.Password)
	observePasswordHash("compare", start)
	if err != nil {
		if errors.Is(err, commoncrypto.ErrPasswordMismatch) {
			s.log.WithFields(ctx, withAction(fields, "login_invalid_password")).Warn("login failed: invalid password")
			return s.rejectLogin(ErrInvalidCredentials)
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_verify_failed",
		}).Errorf("login failed: stored hash unusable: %v", err)
		return s.rejectLogin(ErrInternal)
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	recordLogin(domain.OutcomeSuccess)
	return AuthResult{Outcome: domain.OutcomeSuccess, Username: user.Username}, nil
}

// burnDecoyCompare spends one hash comparison on unknown usernames so they
// take about as long to reject as a wrong password.
func (s *AuthService) burnDecoyCompare(password string) {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("decoy-password-never-matches")
		if err == nil {
			s.decoyHash = hash
		}
	})
	if s.decoyHash != "" {
		_ = s.hasher.Compare(s.decoyHash, password)
	}
}

func (s *AuthService) rejectRegistration(err error) (AuthResult, error) {
	outcome := OutcomeOf(err)
	recordRegistration(outcome)
	return AuthResult{Outcome: outcome, Reason: ReasonOf(err)}, err
}

func (s *AuthService) rejectLogin(err error) (AuthResult, error) {
	outcome := OutcomeOf(err)
	recordLogin(outcome)
	return AuthResult{Outcome: outcome, Reason: ReasonOf(err)}, err
}

func withAction(fields logger.Fields, action string) logger.Fields {
	out := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["action"] = action
	return out
}
