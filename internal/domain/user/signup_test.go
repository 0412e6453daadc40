package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

func TestSignUp_Validate(t *testing.T) {
	valid := SignUp{FullName: "张三", Email: "zs@example.com", Password: "secret1", ConfirmPassword: "secret1"}

	tests := []struct {
		name    string
		mutate  func(s *SignUp)
		wantErr error
	}{
		{"合法", func(s *SignUp) {}, nil},
		{"姓名过短", func(s *SignUp) { s.FullName = " 张 " }, ErrFullNameTooShort},
		{"邮箱缺少@", func(s *SignUp) { s.Email = "zs.example.com" }, ErrInvalidEmail},
		{"邮箱@在开头", func(s *SignUp) { s.Email = "@example.com" }, ErrInvalidEmail},
		{"密码过短", func(s *SignUp) { s.Password, s.ConfirmPassword = "ab1", "ab1" }, apperrors.ErrWeakPassword},
		{"密码不含数字", func(s *SignUp) { s.Password, s.ConfirmPassword = "abcdefg", "abcdefg" }, apperrors.ErrWeakPassword},
		{"确认密码不一致", func(s *SignUp) { s.ConfirmPassword = "secret2" }, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := valid
			tt.mutate(&form)

			err := form.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("期望校验通过，实际: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("期望%v，实际%v", tt.wantErr, err)
			}
		})
	}
}

type stubRepo struct {
	Repository
	users map[string]*User
}

func (r *stubRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func TestService_Authenticate(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	repo := &stubRepo{users: map[string]*User{
		"zs@example.com": {ID: 1, Email: "zs@example.com", Password: string(hashed)},
	}}
	svc := NewService(repo, bcrypt.MinCost, nil)
	ctx := context.Background()

	u, err := svc.Authenticate(ctx, " ZS@example.com ", "secret1")
	if err != nil || u.ID != 1 {
		t.Fatalf("登录失败: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "zs@example.com", "wrong1"); !errors.Is(err, apperrors.ErrInvalidPassword) {
		t.Errorf("密码错误应返回ErrInvalidPassword，实际%v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret1"); !errors.Is(err, apperrors.ErrInvalidPassword) {
		t.Errorf("邮箱不存在应返回ErrInvalidPassword，实际%v", err)
	}
}

func TestService_RoleFor(t *testing.T) {
	svc := NewService(nil, bcrypt.MinCost, []string{"Admin@Library.org"})

	if svc.RoleFor("admin@library.org") != RoleAdmin {
		t.Error("管理员名单中的邮箱应为admin")
	}
	if svc.RoleFor("reader@library.org") != RoleMember {
		t.Error("其他邮箱应为member")
	}
}

func TestService_HashPassword(t *testing.T) {
	svc := NewService(nil, bcrypt.MinCost, nil)

	if _, err := svc.HashPassword("short"); !errors.Is(err, apperrors.ErrWeakPassword) {
		t.Errorf("弱密码应被拒绝，实际%v", err)
	}

	hashed, err := svc.HashPassword("secret1")
	if err != nil {
		t.Fatalf("加密失败: %v", err)
	}
	if err := svc.ValidatePassword(hashed, "secret1"); err != nil {
		t.Errorf("密码校验失败: %v", err)
	}
}
