package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  DatabaseConfig
		want string
	}{
		{
			name: "mysql时区需要URL编码",
			cfg: DatabaseConfig{Driver: "mysql", User: "root", Password: "pw", Host: "db", Port: 3306,
				DBName: "library", Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai"},
			want: "root:pw@tcp(db:3306)/library?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai",
		},
		{
			name: "postgres默认关闭ssl",
			cfg: DatabaseConfig{Driver: "postgres", User: "app", Password: "pw", Host: "pg", Port: 5432,
				DBName: "library", Loc: "UTC"},
			want: "host=pg port=5432 user=app password=pw dbname=library sslmode=disable TimeZone=UTC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.DSN())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080, Mode: "release"},
			Database: DatabaseConfig{Driver: "mysql"},
			JWT:      JWTConfig{Secret: "s3cret"},
			Loan:     LoanConfig{MaxActiveLoans: 3, LoanPeriod: 14 * 24 * time.Hour, DueSoonWindow: 72 * time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "合法配置", mutate: func(c *Config) {}},
		{name: "端口越界", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "生产环境默认密钥", mutate: func(c *Config) { c.JWT.Secret = defaultJWTSecret }, wantErr: true},
		{name: "开发环境允许默认密钥", mutate: func(c *Config) { c.JWT.Secret = defaultJWTSecret; c.Server.Mode = "debug" }},
		{name: "未知驱动", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: true},
		{name: "借阅上限为0", mutate: func(c *Config) { c.Loan.MaxActiveLoans = 0 }, wantErr: true},
		{name: "借期为0", mutate: func(c *Config) { c.Loan.LoanPeriod = 0 }, wantErr: true},
		{name: "启用MQ但没有地址", mutate: func(c *Config) { c.MQ = MQConfig{Enabled: true} }, wantErr: true},
		{name: "携带凭证时不能用通配Origin", mutate: func(c *Config) {
			c.CORS = CORSConfig{Enabled: true, AllowCredentials: true, AllowOrigins: []string{"*"}}
		}, wantErr: true},
		{name: "不携带凭证可以用通配Origin", mutate: func(c *Config) {
			c.CORS = CORSConfig{Enabled: true, AllowOrigins: []string{"*"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yaml"), []byte(`
server:
  port: 9090
loan:
  max_active_loans: 5
`), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("LIBRARY_DATABASE_PASSWORD", "from-env")
	t.Setenv("LIBRARY_LOAN_MAX_ACTIVE_LOANS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 4, cfg.Loan.MaxActiveLoans, "环境变量优先于配置文件")
	assert.Equal(t, 14*24*time.Hour, cfg.Loan.LoanPeriod, "未配置的键使用默认值")
	assert.Equal(t, "mysql", cfg.Database.Driver)
}
