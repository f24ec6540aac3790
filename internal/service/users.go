package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"taskagotchi/internal/domain"
	"taskagotchi/internal/utils"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,80}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// SignupInput is the data needed to create an account.
type SignupInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// UserService creates accounts, logs users in and deletes accounts with everything they own.
type UserService struct {
	db              *gorm.DB
	rdb             *redis.Client
	tokens          *utils.TokenService
	startingBalance int64
}

// NewUserService creates the user service.
func NewUserService(db *gorm.DB, rdb *redis.Client, tokens *utils.TokenService, startingBalance int64) *UserService {
	return &UserService{db: db, rdb: rdb, tokens: tokens, startingBalance: startingBalance}
}

func (in *SignupInput) normalize() error {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if !usernamePattern.MatchString(in.Username) {
		return fmt.Errorf("%w: username must be 3-80 letters, digits or underscores", domain.ErrValidation)
	}
	if !emailPattern.MatchString(in.Email) {
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	}
	// bcrypt ignores input past 72 bytes
	if len(in.Password) < 8 || len(in.Password) > 72 {
		return fmt.Errorf("%w: password must be 8-72 characters", domain.ErrValidation)
	}
	return nil
}

// Signup creates the user together with a funded wallet and a default avatar.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost) // Hash the password
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Username and email must both be free
		var taken int64
		if err := tx.Model(&domain.User{}).
			Where("username = ? OR email = ?", user.Username, user.Email).
			Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fmt.Errorf("%w: username or email", domain.ErrConflict)
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		// Fund the new wallet with the starting balance
		if err := tx.Create(&domain.Wallet{UserID: user.ID, Balance: s.startingBalance}).Error; err != nil {
			return err
		}
		// Dress the avatar in the cheapest item of each slot
		items, err := defaultItems(tx)
		if err != nil {
			return err
		}
		name := user.FirstName
		if name == "" {
			name = user.Username
		}
		_, err = createAvatar(tx, user.ID, name, items)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent signup took the name between the check and the insert
		return nil, fmt.Errorf("%w: username or email", domain.ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
		"balance":  s.startingBalance,
	}).Info("User registered")
	return &user, nil
}

// Login checks the password of the user named by identifier (username or email) and issues a token.
func (s *UserService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	var user domain.User
	if err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, domain.ErrUnauthorized
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrUnauthorized
	}
	token, err := s.tokens.Issue(domain.ClaimFor(&user))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, &user, nil
}

// Exists reports whether a user with the given id exists.
func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	err := userExists(s.db.WithContext(ctx), id)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes owner and every row that belongs to it.
func (s *UserService) Delete(ctx context.Context, owner uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children first so the user row is last to go
		for _, model := range []any{&domain.Task{}, &domain.Transaction{}, &domain.Avatar{}, &domain.Wallet{}} {
			if err := tx.Where("user_id = ?", owner).Delete(model).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&domain.User{}, owner)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user %d", domain.ErrNotFound, owner)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = utils.DeleteCache(ctx, s.rdb, utils.BalanceCacheKey(owner))
	logrus.WithField("user_id", owner).Info("User deleted")
	return nil
}
