package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/folio/internal/auth"
	"github.com/folio/internal/db"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials 在邮箱或密码错误时返回
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccessDenied 在账号没有有效的管理员档案时返回
	ErrAccessDenied = errors.New("access denied")
	// ErrUnauthenticated 在会话缺失、过期或已撤销时返回
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrAdminExists 在邮箱已被注册时返回
	ErrAdminExists = errors.New("admin already exists")
	// ErrSetupClosed 在要求首个管理员但已有管理员时返回
	ErrSetupClosed = errors.New("initial admin already created")
)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// AdminUser 是对外暴露的管理员信息
type AdminUser struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResult 包含登录成功后的用户与令牌
type LoginResult struct {
	User   AdminUser
	Tokens *auth.TokenPair
}

// ResolvedSession 是一次会话检查的结果。
// 访问令牌过期但刷新令牌有效时，RenewedAccess 携带新签发的访问令牌。
type ResolvedSession struct {
	User            AdminUser
	RenewedAccess   string
	RenewedAccessAt time.Time
}

// CreateAdminInput 描述创建管理员所需字段
type CreateAdminInput struct {
	Email    string `validate:"required,email,max=200"`
	Password string `validate:"required,min=8,max=72"`
	Name     string `validate:"required,max=120"`
	// FirstOnly 为 true 时仅在尚无任何管理员时创建，计数与写入在同一事务内
	FirstOnly bool `validate:"-"`
}

// AuthService 负责后台账号的登录、会话与创建
type AuthService struct {
	db       *gorm.DB
	tokens   *auth.TokenManager
	validate *validator.Validate
	log      *zap.Logger
	now      func() time.Time
}

// NewAuthService 构造 AuthService
func NewAuthService(gdb *gorm.DB, tokens *auth.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{db: gdb, tokens: tokens, validate: validator.New(), log: log, now: time.Now}
}

// Tokens 返回令牌管理器，handler 用它决定 Cookie 有效期。
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokens
}

// Login 校验邮箱密码与管理员档案，成功后登记会话并签发令牌。
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	gdb := s.db.WithContext(ctx)
	var identity db.AdminIdentity
	if err := gdb.Where("email = ?", email).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
			compareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load admin identity: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.activeProfile(gdb, identity.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		s.log.Warn("Login rejected without active admin profile", zap.Uint("identity_id", identity.ID))
		return nil, ErrAccessDenied
	}

	pair, err := s.tokens.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}

	now := s.now()
	err = gdb.Transaction(func(tx *gorm.DB) error {
		session := db.AuthSession{TokenID: pair.SessionID, IdentityID: identity.ID, ExpiresAt: pair.RefreshExpiresAt}
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		return tx.Model(&db.AdminIdentity{}).Where("id = ?", identity.ID).Update("last_login_at", now).Error
	})
	if err != nil {
		return nil, fmt.Errorf("record session: %w", err)
	}

	return &LoginResult{User: toAdminUser(profile), Tokens: pair}, nil
}

// Resolve 根据 Cookie 中的令牌恢复当前管理员。
// 会话被撤销或档案被停用时返回 ErrUnauthenticated。
func (s *AuthService) Resolve(ctx context.Context, accessToken, refreshToken string) (*ResolvedSession, error) {
	result := &ResolvedSession{}

	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		refresh, refreshErr := s.tokens.ParseRefresh(refreshToken)
		if refreshErr != nil {
			return nil, ErrUnauthenticated
		}
		token, expiresAt, signErr := s.tokens.Reissue(refresh)
		if signErr != nil {
			return nil, fmt.Errorf("reissue access token: %w", signErr)
		}
		claims = refresh
		result.RenewedAccess = token
		result.RenewedAccessAt = expiresAt
	}

	gdb := s.db.WithContext(ctx)
	var session db.AuthSession
	err = gdb.Where("token_id = ? AND identity_id = ? AND revoked_at IS NULL",
		claims.SessionID, claims.IdentityID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, ErrUnauthenticated
	}

	profile, err := s.activeProfile(gdb, claims.IdentityID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrUnauthenticated
	}

	result.User = toAdminUser(profile)
	return result, nil
}

// Logout 撤销令牌所属的会话；令牌无效时静默成功。
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	var sessionID string
	if claims, err := s.tokens.ParseAccess(accessToken); err == nil {
		sessionID = claims.SessionID
	} else if claims, err := s.tokens.ParseRefresh(refreshToken); err == nil {
		sessionID = claims.SessionID
	}
	if sessionID == "" {
		return nil
	}

	err := s.db.WithContext(ctx).Model(&db.AuthSession{}).
		Where("token_id = ? AND revoked_at IS NULL", sessionID).
		Update("revoked_at", s.now()).Error
	if err != nil && !db.IsMissingTable(err) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// CreateAdmin 创建认证身份与启用状态的管理员档案，返回身份 ID。
func (s *AuthService) CreateAdmin(ctx context.Context, input CreateAdminInput) (uint, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidation(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	var identityID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.FirstOnly {
			if err := lockAdminTables(tx); err != nil {
				return err
			}
			var admins int64
			if err := tx.Model(&db.AdminProfile{}).Count(&admins).Error; err != nil {
				return err
			}
			if admins > 0 {
				return ErrSetupClosed
			}
		}

		var count int64
		if err := tx.Model(&db.AdminIdentity{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAdminExists
		}

		identity := db.AdminIdentity{Email: input.Email, PasswordHash: string(hash)}
		if err := tx.Create(&identity).Error; err != nil {
			return err
		}
		profile := db.AdminProfile{
			IdentityID: identity.ID,
			Email:      input.Email,
			Name:       input.Name,
			Role:       "admin",
			IsActive:   true,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		identityID = identity.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAdminExists) || errors.Is(err, ErrSetupClosed) {
			return 0, err
		}
		return 0, fmt.Errorf("create admin: %w", err)
	}

	s.log.Info("Admin user created", zap.Uint("identity_id", identityID), zap.String("email", input.Email))
	return identityID, nil
}

// lockAdminTables 让并发的首个管理员创建排队执行。
// SQLite 的写事务本身互斥，Postgres 需要显式表锁。
func lockAdminTables(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("LOCK TABLE " + db.AdminProfile{}.TableName() + " IN SHARE ROW EXCLUSIVE MODE").Error
}

// HasAdmins 判断是否已存在任何管理员档案
func (s *AuthService) HasAdmins(ctx context.Context) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.AdminProfile{}).Count(&count).Error; err != nil {
		if db.IsMissingTable(err) {
			return false, nil
		}
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// SetActive 启用或停用管理员档案
func (s *AuthService) SetActive(ctx context.Context, identityID uint, active bool) error {
	result := s.db.WithContext(ctx).Model(&db.AdminProfile{}).Where("identity_id = ?", identityID).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("update admin profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AuthService) activeProfile(gdb *gorm.DB, identityID uint) (*db.AdminProfile, error) {
	var profile db.AdminProfile
	err := gdb.Where("identity_id = ? AND is_active = ?", identityID, true).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || db.IsMissingTable(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("load admin profile: %w", err)
	}
	return &profile, nil
}

func toAdminUser(profile *db.AdminProfile) AdminUser {
	return AdminUser{ID: profile.IdentityID, Email: profile.Email, Name: profile.Name, Role: profile.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// compareDummy 对未知邮箱也做一次 bcrypt 比较，使两种失败耗时接近。
func compareDummy(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("folio-dummy-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}
