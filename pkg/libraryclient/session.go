package libraryclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/user"
)

// ErrNotSignedIn 没有可用的登录凭证
var ErrNotSignedIn = errors.New("libraryclient: not signed in")

// Session 当前登录会话
//
// Start加载资料并订阅认证事件流；SIGNED_OUT到达时清除本地凭证与资料。
// 事件会转发给所有Subscribe的订阅者，订阅者处理慢时丢弃事件而不是阻塞读循环。
// 事件流被服务端或网络断开时关闭所有订阅，Err返回断开原因，需要重新Start。
type Session struct {
	client *Client
	dialer *websocket.Dialer

	mu      sync.RWMutex
	profile *appuser.ProfileDTO
	subs    map[int]chan user.AuthEvent
	nextSub int
	ended   bool  // 事件流已结束，新订阅立即关闭
	err     error // 事件流意外断开的原因

	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSession 创建会话
func NewSession(client *Client) *Session {
	return &Session{
		client: client,
		dialer: websocket.DefaultDialer,
		subs:   make(map[int]chan user.AuthEvent),
	}
}

// Start 加载资料并连接认证事件流
func (s *Session) Start(ctx context.Context) error {
	token := s.client.AccessToken()
	if token == "" {
		return ErrNotSignedIn
	}

	profile, err := s.client.Profile(ctx)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	conn, resp, err := s.dialer.DialContext(ctx, eventsURL(s.client.BaseURL()), header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("%w: 连接认证事件流失败(HTTP %d)", ErrTransport, resp.StatusCode)
		}
		return fmt.Errorf("%w: 连接认证事件流失败: %v", ErrTransport, err)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.profile = profile
	s.conn = conn
	s.cancel = cancel
	s.done = make(chan struct{})
	s.ended, s.err = false, nil
	done := s.done
	s.mu.Unlock()

	go s.readLoop(runCtx, conn, done)
	return nil
}

// Close 断开事件流并关闭所有订阅
func (s *Session) Close() {
	s.mu.Lock()
	conn, cancel, done := s.conn, s.cancel, s.done
	s.conn, s.cancel = nil, nil
	s.mu.Unlock()

	if conn == nil {
		return
	}
	cancel()
	_ = conn.Close()
	<-done

	s.mu.Lock()
	s.endLocked(nil)
	s.mu.Unlock()
}

// Err 事件流意外断开的原因，正常运行或主动Close时为nil
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// endLocked 关闭所有订阅，调用方持有s.mu
func (s *Session) endLocked(err error) {
	s.ended = true
	if err != nil && s.err == nil {
		s.err = err
	}
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

// Subscribe 订阅认证事件，调用返回的函数取消订阅
func (s *Session) Subscribe() (<-chan user.AuthEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan user.AuthEvent, 8)
	if s.ended {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				close(c)
				delete(s.subs, id)
			}
		})
	}
}

// CurrentUserID 未登录时为0
func (s *Session) CurrentUserID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return 0
	}
	return s.profile.UserID
}

// Profile 当前资料的副本，未登录时为nil
func (s *Session) Profile() *appuser.ProfileDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	cp := *s.profile
	return &cp
}

func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile != nil && s.profile.Role == user.RoleAdmin
}

func (s *Session) readLoop(ctx context.Context, conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var event user.AuthEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() == nil {
				s.mu.Lock()
				s.endLocked(fmt.Errorf("%w: 认证事件流已断开: %v", ErrTransport, err))
				s.mu.Unlock()
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		s.apply(event)
	}
}

// apply 更新本地状态后转发给订阅者
func (s *Session) apply(event user.AuthEvent) {
	if event.Type == user.EventSignedOut {
		s.client.SetTokens("", "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if event.Type == user.EventSignedOut {
		s.profile = nil
	}
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// eventsURL http(s)://host → ws(s)://host/api/v1/auth/events
func eventsURL(baseURL string) string {
	u := strings.TrimSuffix(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/api/v1/auth/events"
}
