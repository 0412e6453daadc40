package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/jwt"
)

// ---- 内存实现 ----

type memUsers struct {
	mu       sync.Mutex
	users    map[uint]*user.User
	profiles map[uint]*user.Profile
	nextID   uint
	calls    int
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uint]*user.User{}, profiles: map[uint]*user.Profile{}}
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperrors.ErrEmailDuplicate
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id uint) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) LockByID(ctx context.Context, id uint) (*user.User, error) {
	return m.FindByID(ctx, id)
}

type memProfiles struct {
	m *memUsers
}

func (p memProfiles) Create(_ context.Context, profile *user.Profile) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	cp := *profile
	p.m.profiles[profile.UserID] = &cp
	return nil
}

func (p memProfiles) FindByUserID(_ context.Context, userID uint) (*user.Profile, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	profile, ok := p.m.profiles[userID]
	if !ok {
		return nil, user.ErrProfileNotFound
	}
	cp := *profile
	return &cp, nil
}

func (p memProfiles) Update(_ context.Context, profile *user.Profile) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	cp := *profile
	p.m.profiles[profile.UserID] = &cp
	return nil
}

type directTx struct{}

func (directTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSessions struct {
	mu        sync.Mutex
	sessions  map[uint]map[string]interface{}
	blacklist map[string]time.Duration
	recovery  map[string]uint
}

func newMemSessions() *memSessions {
	return &memSessions{
		sessions:  map[uint]map[string]interface{}{},
		blacklist: map[string]time.Duration{},
		recovery:  map[string]uint{},
	}
}

func (s *memSessions) SaveSession(_ context.Context, userID uint, data map[string]interface{}, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = data
	return nil
}

func (s *memSessions) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *memSessions) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[token] = ttl
	return nil
}

func (s *memSessions) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.blacklist[token]
	return ok, nil
}

func (s *memSessions) SaveRecoveryToken(_ context.Context, token string, userID uint, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recovery[token] = userID
	return nil
}

func (s *memSessions) ConsumeRecoveryToken(_ context.Context, token string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.recovery[token]
	if !ok {
		return 0, user.ErrInvalidRecoveryToken
	}
	delete(s.recovery, token)
	return id, nil
}

type recordingBus struct {
	mu     sync.Mutex
	events []user.AuthEvent
}

func (b *recordingBus) Publish(_ context.Context, e user.AuthEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, uint) (<-chan user.AuthEvent, func(), error) {
	ch := make(chan user.AuthEvent)
	return ch, func() { close(ch) }, nil
}

func (b *recordingBus) types() []user.AuthEventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []user.AuthEventType
	for _, e := range b.events {
		out = append(out, e.Type)
	}
	return out
}

type env struct {
	users    *memUsers
	sessions *memSessions
	bus      *recordingBus
	svc      user.Service
	jwt      *jwt.Manager
}

func newEnv() *env {
	users := newMemUsers()
	return &env{
		users:    users,
		sessions: newMemSessions(),
		bus:      &recordingBus{},
		// bcrypt最小cost，测试提速
		svc: user.NewService(users, 4, []string{"Admin@Library.test"}),
		jwt: jwt.NewManager("test-secret", time.Hour, 24*time.Hour),
	}
}

func (e *env) register(t *testing.T, name, email string) *RegisterResponse {
	t.Helper()
	resp, err := NewRegisterUseCase(directTx{}, e.svc, e.users, memProfiles{e.users}).Execute(context.Background(), RegisterRequest{
		FullName: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return resp
}

// ---- 测试 ----

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		req         RegisterRequest
		wantErr     error
		wantRole    user.Role
		wantNoStore bool
	}{
		{
			name:     "普通会员",
			req:      RegisterRequest{FullName: "Ann Lee", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			wantRole: user.RoleMember,
		},
		{
			name:     "管理员邮箱不区分大小写",
			req:      RegisterRequest{FullName: "Boss", Email: " admin@library.TEST ", Password: "secret1", ConfirmPassword: "secret1"},
			wantRole: user.RoleAdmin,
		},
		{
			name:        "姓名太短",
			req:         RegisterRequest{FullName: "A", Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret1"},
			wantErr:     user.ErrFullNameTooShort,
			wantNoStore: true,
		},
		{
			name:        "密码不含数字",
			req:         RegisterRequest{FullName: "Ann", Email: "a@example.com", Password: "secret", ConfirmPassword: "secret"},
			wantErr:     apperrors.ErrWeakPassword,
			wantNoStore: true,
		},
		{
			name:        "两次密码不一致",
			req:         RegisterRequest{FullName: "Ann", Email: "a@example.com", Password: "secret1", ConfirmPassword: "secret2"},
			wantErr:     user.ErrPasswordMismatch,
			wantNoStore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			resp, err := NewRegisterUseCase(directTx{}, e.svc, e.users, memProfiles{e.users}).Execute(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				if tt.wantNoStore {
					assert.Zero(t, e.users.calls, "校验失败不应访问存储")
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, resp.Role)

			profile, err := memProfiles{e.users}.FindByUserID(ctx, resp.ID)
			require.NoError(t, err, "用户与资料应同时创建")
			assert.Equal(t, tt.wantRole, profile.Role)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	e := newEnv()
	e.register(t, "Ann", "ann@example.com")

	_, err := NewRegisterUseCase(directTx{}, e.svc, e.users, memProfiles{e.users}).Execute(context.Background(), RegisterRequest{
		FullName: "Ann Two", Email: "ANN@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	reg := e.register(t, "Ann", "ann@example.com")

	login := NewLoginUseCase(e.svc, memProfiles{e.users}, e.jwt, e.sessions, e.bus)

	_, err := login.Execute(ctx, LoginRequest{Email: "ann@example.com", Password: "wrong1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = login.Execute(ctx, LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword, "邮箱不存在与密码错误返回同一个错误")

	resp, err := login.Execute(ctx, LoginRequest{Email: "ann@example.com", Password: "secret1", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, resp.User.ID)
	assert.Equal(t, user.RoleMember, resp.User.Role)
	assert.Contains(t, e.sessions.sessions, reg.ID)

	claims, err := e.jwt.ParseAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "member", claims.Role)

	err = NewLogoutUseCase(e.sessions, e.jwt, e.bus).Execute(ctx, reg.ID, "ann@example.com", resp.AccessToken)
	require.NoError(t, err)
	assert.NotContains(t, e.sessions.sessions, reg.ID)
	assert.Equal(t, time.Hour, e.sessions.blacklist[resp.AccessToken])

	assert.Equal(t, []user.AuthEventType{user.EventSignedIn, user.EventSignedOut}, e.bus.types())
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	e.register(t, "Ann", "ann@example.com")
	resp, err := NewLoginUseCase(e.svc, memProfiles{e.users}, e.jwt, e.sessions, e.bus).
		Execute(ctx, LoginRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	refresh := NewRefreshTokenUseCase(e.jwt, e.sessions)

	out, err := refresh.Execute(ctx, resp.RefreshToken)
	require.NoError(t, err)
	_, err = e.jwt.ParseAccessToken(out.AccessToken)
	assert.NoError(t, err)

	_, err = refresh.Execute(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "Access Token不能用来刷新")

	require.NoError(t, e.sessions.AddToBlacklist(ctx, resp.RefreshToken, time.Hour))
	_, err = refresh.Execute(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestPasswordRecovery(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	reg := e.register(t, "Ann", "ann@example.com")

	recoverUC := NewRecoverPasswordUseCase(e.users, e.sessions, e.bus, 30*time.Minute, true)
	reset := NewResetPasswordUseCase(e.svc, e.users, e.sessions, e.sessions)

	// 未注册邮箱不报错也不发事件
	resp, err := recoverUC.Execute(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, resp.Token)
	assert.Empty(t, e.bus.types())

	resp, err = recoverUC.Execute(ctx, "Ann@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, []user.AuthEventType{user.EventPasswordRecovery}, e.bus.types())

	// 新密码不合规时不消费凭证
	err = reset.Execute(ctx, ResetPasswordRequest{Token: resp.Token, Password: "short", ConfirmPassword: "short"})
	assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

	err = reset.Execute(ctx, ResetPasswordRequest{Token: resp.Token, Password: "newpass9", ConfirmPassword: "newpass9"})
	require.NoError(t, err)

	err = reset.Execute(ctx, ResetPasswordRequest{Token: resp.Token, Password: "newpass9", ConfirmPassword: "newpass9"})
	assert.ErrorIs(t, err, user.ErrInvalidRecoveryToken, "凭证只能使用一次")

	_, err = e.svc.Authenticate(ctx, "ann@example.com", "newpass9")
	assert.NoError(t, err)
	_, err = e.svc.Authenticate(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	assert.NotContains(t, e.sessions.sessions, reg.ID)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	e := newEnv()
	reg := e.register(t, "Ann", "ann@example.com")
	uc := NewProfileUseCase(e.users, memProfiles{e.users})

	p, err := uc.Get(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.FullName)
	assert.Equal(t, "ann@example.com", p.Email)

	p, err = uc.UpdateName(ctx, reg.ID, "  Ann Lee ")
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", p.FullName)

	_, err = uc.UpdateName(ctx, reg.ID, "A")
	assert.ErrorIs(t, err, user.ErrFullNameTooShort)

	_, err = uc.Get(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
