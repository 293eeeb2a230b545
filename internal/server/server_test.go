package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/auth"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/biz"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/conf"
	"github.com/mohammedsinanpt/Movie-website-and-recommendation-system/internal/service"
)

type headerCarrier http.Header

func (hc headerCarrier) Get(key string) string      { return http.Header(hc).Get(key) }
func (hc headerCarrier) Set(key, value string)      { http.Header(hc).Set(key, value) }
func (hc headerCarrier) Add(key, value string)      { http.Header(hc).Add(key, value) }
func (hc headerCarrier) Values(key string) []string { return http.Header(hc).Values(key) }
func (hc headerCarrier) Keys() []string {
	keys := make([]string, 0, len(hc))
	for k := range http.Header(hc) {
		keys = append(keys, k)
	}
	return keys
}

type fakeTransport struct {
	operation string
	request   *http.Request
}

func (t *fakeTransport) Kind() transport.Kind            { return transport.KindHTTP }
func (t *fakeTransport) Endpoint() string                { return "" }
func (t *fakeTransport) Operation() string               { return t.operation }
func (t *fakeTransport) RequestHeader() transport.Header { return headerCarrier(t.request.Header) }
func (t *fakeTransport) ReplyHeader() transport.Header   { return headerCarrier(http.Header{}) }
func (t *fakeTransport) Request() *http.Request          { return t.request }
func (t *fakeTransport) PathTemplate() string            { return "" }

var _ khttp.Transporter = (*fakeTransport)(nil)

func serverContext(method, operation string, header map[string]string) context.Context {
	req := httptest.NewRequest(method, "/v1/movies", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return transport.NewServerContext(context.Background(), &fakeTransport{operation: operation, request: req})
}

type stubTokens struct {
	claims *auth.Claims
	err    error
}

func (s stubTokens) Parse(string) (*auth.Claims, error) { return s.claims, s.err }

type stubResolver struct {
	actors map[string]biz.Actor
}

func (s stubResolver) ResolveActor(_ context.Context, userID string) (biz.Actor, error) {
	actor, ok := s.actors[userID]
	if !ok {
		return biz.Actor{}, biz.ErrUnauthenticated
	}
	return actor, nil
}

func captureActor(actor *biz.Actor) func(context.Context, interface{}) (interface{}, error) {
	return func(ctx context.Context, _ interface{}) (interface{}, error) {
		*actor = auth.FromContext(ctx)
		return "ok", nil
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := stubTokens{claims: &auth.Claims{}}
	tokens.claims.Subject = "u1"
	resolver := stubResolver{actors: map[string]biz.Actor{"u1": {UserID: "u1", IsStaff: true}}}

	t.Run("anonymous without header", func(t *testing.T) {
		var got biz.Actor
		h := AuthMiddleware(tokens, resolver)(captureActor(&got))
		_, err := h(serverContext(http.MethodGet, OperationListMovies, nil), nil)
		require.NoError(t, err)
		assert.False(t, got.Authenticated())
	})

	t.Run("bearer token resolves actor", func(t *testing.T) {
		var got biz.Actor
		h := AuthMiddleware(tokens, resolver)(captureActor(&got))
		ctx := serverContext(http.MethodPost, OperationCreateMovie, map[string]string{"Authorization": "Bearer abc"})
		_, err := h(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "u1", got.UserID)
		assert.True(t, got.IsStaff)
	})

	t.Run("malformed header", func(t *testing.T) {
		var got biz.Actor
		h := AuthMiddleware(tokens, resolver)(captureActor(&got))
		ctx := serverContext(http.MethodPost, OperationCreateMovie, map[string]string{"Authorization": "Token abc"})
		_, err := h(ctx, nil)
		assert.True(t, errors.IsUnauthorized(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		var got biz.Actor
		h := AuthMiddleware(stubTokens{err: auth.ErrInvalidToken}, resolver)(captureActor(&got))
		ctx := serverContext(http.MethodGet, OperationGetMovie, map[string]string{"Authorization": "Bearer abc"})
		_, err := h(ctx, nil)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("deleted user", func(t *testing.T) {
		var got biz.Actor
		h := AuthMiddleware(tokens, stubResolver{})(captureActor(&got))
		ctx := serverContext(http.MethodGet, OperationGetMovie, map[string]string{"Authorization": "Bearer abc"})
		_, err := h(ctx, nil)
		assert.ErrorIs(t, err, biz.ErrUnauthenticated)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	mw, err := RateLimitMiddleware(&conf.Auth{RateLimit: 0.001, RateBurst: 2})
	require.NoError(t, err)
	h := mw(func(context.Context, interface{}) (interface{}, error) { return "ok", nil })

	ctx := serverContext(http.MethodPost, OperationRateMovie, nil)
	for i := 0; i < 2; i++ {
		_, err := h(ctx, nil)
		require.NoError(t, err)
	}
	_, err = h(ctx, nil)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, http.StatusTooManyRequests, errors.Code(err))

	// another actor has its own bucket
	other := auth.NewContext(ctx, biz.Actor{UserID: "u2"})
	_, err = h(other, nil)
	assert.NoError(t, err)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	mw, err := RateLimitMiddleware(&conf.Auth{})
	require.NoError(t, err)
	h := mw(func(context.Context, interface{}) (interface{}, error) { return "ok", nil })
	ctx := serverContext(http.MethodPost, OperationRateMovie, nil)
	for i := 0; i < 50; i++ {
		_, err := h(ctx, nil)
		require.NoError(t, err)
	}
}

func TestClientKey(t *testing.T) {
	proxies, err := parseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.7"})
	require.NoError(t, err)
	forwarded := map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"}

	// the header is ignored unless the peer is a trusted proxy
	assert.Equal(t, "ip:10.0.0.1", clientKey(serverContext(http.MethodPost, "", nil), nil))
	assert.Equal(t, "ip:10.0.0.1", clientKey(serverContext(http.MethodPost, "", forwarded), nil))

	assert.Equal(t, "ip:203.0.113.9", clientKey(serverContext(http.MethodPost, "", forwarded), proxies))
	assert.Equal(t, "ip:10.0.0.1", clientKey(serverContext(http.MethodPost, "", nil), proxies))
	assert.Equal(t, "user:u1", clientKey(auth.NewContext(serverContext(http.MethodPost, "", nil), biz.Actor{UserID: "u1"}), proxies))
}

func TestClientKey_SpoofedHopBehindProxy(t *testing.T) {
	proxies, err := parseTrustedProxies([]string{"10.0.0.0/8"})
	require.NoError(t, err)

	// a client-supplied left-most hop cannot displace the address the proxy appended
	ctx := serverContext(http.MethodPost, "", map[string]string{"X-Forwarded-For": "1.2.3.4, 198.51.100.20"})
	assert.Equal(t, "ip:198.51.100.20", clientKey(ctx, proxies))
}

func TestRateLimitMiddleware_ForwardedForFromUntrustedPeer(t *testing.T) {
	mw, err := RateLimitMiddleware(&conf.Auth{RateLimit: 0.001, RateBurst: 1})
	require.NoError(t, err)
	h := mw(func(context.Context, interface{}) (interface{}, error) { return "ok", nil })

	_, err = h(serverContext(http.MethodPost, OperationLogin, map[string]string{"X-Forwarded-For": "203.0.113.1"}), nil)
	require.NoError(t, err)
	_, err = h(serverContext(http.MethodPost, OperationLogin, map[string]string{"X-Forwarded-For": "203.0.113.2"}), nil)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := parseTrustedProxies([]string{" 127.0.0.1 ", "", "::1", "172.16.0.0/12"})
	require.NoError(t, err)
	require.Len(t, proxies, 3)

	_, err = parseTrustedProxies([]string{"not-an-ip"})
	assert.Error(t, err)
	_, err = parseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)

	_, err = RateLimitMiddleware(&conf.Auth{RateLimit: 1, TrustedProxies: []string{"bogus"}})
	assert.Error(t, err)
}

func TestIsWriteOperation(t *testing.T) {
	assert.False(t, isWriteOperation(serverContext(http.MethodGet, OperationListMovies, nil), OperationListMovies))
	assert.True(t, isWriteOperation(serverContext(http.MethodPost, OperationCreateMovie, nil), OperationCreateMovie))
	assert.True(t, isWriteOperation(serverContext(http.MethodDelete, OperationDeleteMovie, nil), OperationDeleteMovie))
	assert.False(t, isWriteOperation(context.Background(), ""))
}

func TestCustomResponseEncoder(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)

	rec := httptest.NewRecorder()
	require.NoError(t, customResponseEncoder(rec, req, &service.CreateMovieReply{}))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, customResponseEncoder(rec, req, &service.MovieReply{Title: "Inception"}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Inception"`)
}

func TestMetricsMiddlewarePassesThrough(t *testing.T) {
	h := MetricsMiddleware()(func(context.Context, interface{}) (interface{}, error) {
		return nil, biz.ErrMovieNotFound
	})
	_, err := h(serverContext(http.MethodGet, OperationGetMovie, nil), nil)
	assert.ErrorIs(t, err, biz.ErrMovieNotFound)
}
