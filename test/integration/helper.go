// Package integration 针对运行中的服务做端到端测试
//
// 默认跳过，需要先启动服务(go run ./cmd/api)并设置：
//
//	LIBRARY_INTEGRATION=1
//	LIBRARY_BASE_URL=http://localhost:8080           (可选)
//	LIBRARY_ADMIN_EMAIL=admin@example.com            (需在服务端auth.admin_emails中)
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/pkg/libraryclient"
)

const (
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	testPassword = "Test1234"
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Reason  string          `json:"reason"`
	Data    json.RawMessage `json:"data"`
}

// IDData 只关心ID的响应
type IDData struct {
	ID uint `json:"id"`
}

var seq atomic.Int64

// baseURL 服务地址，未开启集成测试时跳过
func baseURL(t *testing.T) string {
	t.Helper()
	if os.Getenv("LIBRARY_INTEGRATION") != "1" {
		t.Skip("设置LIBRARY_INTEGRATION=1并启动服务后运行集成测试")
	}
	if u := os.Getenv("LIBRARY_BASE_URL"); u != "" {
		return u
	}
	return "http://localhost:8080"
}

// PostJSON 发送POST请求并解析统一响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")
	return send(t, http.MethodPost, url, bytes.NewReader(jsonData), token)
}

// GetJSON 发送GET请求并解析统一响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	return send(t, http.MethodGet, url, nil, token)
}

func send(t *testing.T, method, url string, body io.Reader, token string) *Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// UniqueEmail 生成唯一的测试邮箱
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueISBN 生成唯一的ISBN-13(带合法校验位)
func UniqueISBN() string {
	body := fmt.Sprintf("978%09d", (time.Now().UnixNano()/1000+seq.Add(1))%1000000000)
	sum := 0
	for i, ch := range body {
		d := int(ch - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return fmt.Sprintf("%s%d", body, (10-sum%10)%10)
}

// NewMember 注册并登录一个会员，返回已带Token的客户端
func NewMember(t *testing.T, prefix string) *libraryclient.Client {
	t.Helper()
	return signUp(t, UniqueEmail(prefix))
}

// NewAdmin 用LIBRARY_ADMIN_EMAIL登录管理员，首次运行时先注册
func NewAdmin(t *testing.T) *libraryclient.Client {
	t.Helper()
	email := os.Getenv("LIBRARY_ADMIN_EMAIL")
	if email == "" {
		t.Skip("未设置LIBRARY_ADMIN_EMAIL，跳过需要管理员的用例")
	}
	return signUp(t, email)
}

func signUp(t *testing.T, email string) *libraryclient.Client {
	t.Helper()
	c := libraryclient.New(libraryclient.Config{BaseURL: baseURL(t)})
	ctx := testContext(t)

	_, err := c.Register(ctx, "测试用户", email, testPassword, testPassword)
	if err != nil {
		require.Equal(t, "邮箱已被注册", libraryclient.Message(err), "注册失败: %v", err)
	}
	_, err = c.Login(ctx, email, testPassword)
	require.NoError(t, err, "登录失败")
	return c
}

// CreateBook 管理员新建作者、分类和图书，返回图书ID
func CreateBook(t *testing.T, admin *libraryclient.Client, title string, copies int) uint {
	t.Helper()
	api := admin.BaseURL() + "/api/v1"
	token := admin.AccessToken()
	suffix := fmt.Sprintf("%d", seq.Add(1))

	authorID := createID(t, PostJSON(t, api+"/authors", map[string]string{"name": "作者" + suffix}, token))
	categoryID := createID(t, PostJSON(t, api+"/categories", map[string]string{"name": "分类" + suffix}, token))

	return createID(t, PostJSON(t, api+"/books", map[string]interface{}{
		"isbn":         UniqueISBN(),
		"title":        title,
		"author_id":    authorID,
		"category_id":  categoryID,
		"total_copies": copies,
	}, token))
}

func createID(t *testing.T, resp *Response) uint {
	t.Helper()
	require.Equal(t, 0, resp.Code, "创建失败: %s", resp.Message)
	var data IDData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotZero(t, data.ID)
	return data.ID
}

// testContext 返回在测试结束时取消的context（等价于Go 1.24的t.Context）
func testContext(t testing.TB) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
