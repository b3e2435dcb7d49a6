package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/set-night/ptucalc/internal/domain"
	"github.com/set-night/ptucalc/internal/service"
)

// apiRecorder is a fake Bot API that records called methods.
type apiRecorder struct {
	mu      sync.Mutex
	methods []string
}

func (a *apiRecorder) calls(method string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, m := range a.methods {
		if m == method {
			n++
		}
	}
	return n
}

func newTestBot(t *testing.T) (*bot.Bot, *apiRecorder) {
	t.Helper()
	rec := &apiRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		rec.mu.Lock()
		rec.methods = append(rec.methods, method)
		rec.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`))
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithSkipGetMe(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)
	return b, rec
}

type admins map[int64]bool

func (a admins) IsAdmin(id int64) bool { return a[id] }

func messageUpdate(chatID, userID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID, Type: models.ChatTypePrivate},
		From: &models.User{ID: userID},
		Text: text,
	}}
}

func TestSessionLoader(t *testing.T) {
	sessions := service.NewSessionService(domain.TermMonthly)
	mw := SessionLoader(sessions, admins{100: true})

	var got *service.Session
	var admin bool
	handler := mw(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		got = GetSession(ctx)
		admin = IsAdmin(ctx)
	})

	handler(context.Background(), nil, messageUpdate(5, 100, "/start"))
	require.NotNil(t, got)
	assert.Equal(t, int64(5), got.ChatID)
	assert.True(t, admin)

	handler(context.Background(), nil, messageUpdate(6, 200, "/start"))
	require.NotNil(t, got)
	assert.Equal(t, int64(6), got.ChatID)
	assert.False(t, admin)

	callback := &models.Update{CallbackQuery: &models.CallbackQuery{
		From:    models.User{ID: 100},
		Message: models.MaybeInaccessibleMessage{Message: &models.Message{Chat: models.Chat{ID: 5}}},
	}}
	handler(context.Background(), nil, callback)
	assert.Same(t, sessions.FindOrCreate(5), got)

	got = nil
	handler(context.Background(), nil, &models.Update{})
	assert.Nil(t, got)
}

func TestGetSessionEmptyContext(t *testing.T) {
	assert.Nil(t, GetSession(context.Background()))
	assert.False(t, IsAdmin(context.Background()))
}

func TestRecover(t *testing.T) {
	var reported error
	handler := Recover(func(err error) { reported = err })(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		handler(context.Background(), nil, &models.Update{})
	})
	require.Error(t, reported)
	assert.Contains(t, reported.Error(), "boom")

	assert.NotPanics(t, func() {
		Recover(nil)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			panic("again")
		})(context.Background(), nil, &models.Update{})
	})
}

func TestRateLimit(t *testing.T) {
	b, api := newTestBot(t)
	limiter := service.NewRateLimiter(2, time.Minute)

	handled := 0
	handler := RateLimit(limiter)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		handled++
	})

	for i := 0; i < 5; i++ {
		handler(context.Background(), b, messageUpdate(1, 1, "/evaluate"))
	}
	assert.Equal(t, 2, handled)
	assert.Equal(t, 1, api.calls("sendMessage"), "warned once per window")

	handler(context.Background(), b, &models.Update{CallbackQuery: &models.CallbackQuery{ID: "q"}})
	assert.Equal(t, 3, handled, "callbacks are not limited")
}

func TestLoggingPassesThrough(t *testing.T) {
	called := false
	Logging()(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		called = true
	})(context.Background(), nil, messageUpdate(1, 1, "/workload 1 2 3"))
	assert.True(t, called)
}

func TestCommandOf(t *testing.T) {
	assert.Equal(t, "/workload", commandOf("/workload 1000 100 60"))
	assert.Equal(t, "/start", commandOf("/start@ptucalc_bot"))
	assert.Equal(t, "", commandOf("hello"))
	assert.Equal(t, "", commandOf(""))
}
