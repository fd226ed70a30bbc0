package dataservice

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RESTClient talks to the hosted service over its REST surface: collections
// under /rest/v1 and auth under /auth/v1. Deliberately no timeout and no
// retry on the underlying client — a failed call is terminal for that
// invocation and a hanging call hangs its caller.
type RESTClient struct {
	http   *resty.Client
	apiKey string
	log    zerolog.Logger

	mu           sync.RWMutex
	session      *Session
	listeners    map[int]func(*Session)
	nextListener int
	expiryTimer  *time.Timer
}

// NewRESTClient builds a client for the service at baseURL. apiKey is the
// public (anon) key; it authenticates requests until a session exists, after
// which the session's access token takes over as the bearer credential.
func NewRESTClient(baseURL, apiKey string, logger zerolog.Logger) *RESTClient {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RESTClient{
		http:      httpClient,
		apiKey:    apiKey,
		log:       logger,
		listeners: make(map[int]func(*Session)),
	}
}

type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Msg != "":
		return e.Msg
	}
	return ""
}

func remoteFailure(resp *resty.Response, apiErr *apiError) error {
	if msg := apiErr.text(); msg != "" {
		return fmt.Errorf("%s (status %d)", msg, resp.StatusCode())
	}
	return fmt.Errorf("data service returned status %d", resp.StatusCode())
}

func (c *RESTClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session != nil {
		return c.session.AccessToken
	}
	return c.apiKey
}

func (c *RESTClient) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetHeader("Authorization", "Bearer "+c.bearer())
}

func filterParams(r *resty.Request, filters []Filter, anyOf []Filter) {
	for _, f := range filters {
		r.SetQueryParam(f.Column, f.Op+"."+f.Value)
	}
	if len(anyOf) > 0 {
		terms := make([]string, len(anyOf))
		for i, f := range anyOf {
			terms[i] = f.Column + "." + f.Op + "." + f.Value
		}
		r.SetQueryParam("or", "("+strings.Join(terms, ",")+")")
	}
}

// Query implements Store.
func (c *RESTClient) Query(ctx context.Context, q Query, dest interface{}) error {
	r := c.request(ctx).SetResult(dest).SetError(&apiError{})
	if q.Select != "" {
		r.SetQueryParam("select", q.Select)
	}
	filterParams(r, q.Filters, q.AnyOf)
	if len(q.Orders) > 0 {
		terms := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "desc"
			if o.Ascending {
				dir = "asc"
			}
			terms[i] = o.Column + "." + dir
		}
		r.SetQueryParam("order", strings.Join(terms, ","))
	}
	if q.Limit > 0 {
		r.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}

	resp, err := r.Get("/rest/v1/" + q.Collection)
	if err != nil {
		return fmt.Errorf("query %s: %w", q.Collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("query %s: %w", q.Collection, remoteFailure(resp, resp.Error().(*apiError)))
	}
	return nil
}

// Count implements Store. The service reports the exact row count in the
// Content-Range header when asked; rows themselves are not transferred.
func (c *RESTClient) Count(ctx context.Context, collection string, filters []Filter) (int, error) {
	r := c.request(ctx).
		SetHeader("Prefer", "count=exact").
		SetQueryParam("select", "id")
	filterParams(r, filters, nil)

	resp, err := r.Head("/rest/v1/" + collection)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("count %s: data service returned status %d", collection, resp.StatusCode())
	}

	// Content-Range is "<from>-<to>/<total>" or "*/<total>".
	cr := resp.Header().Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 {
		return 0, fmt.Errorf("count %s: malformed Content-Range %q", collection, cr)
	}
	total, err := strconv.Atoi(cr[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("count %s: malformed Content-Range %q", collection, cr)
	}
	return total, nil
}

// Insert implements Store.
func (c *RESTClient) Insert(ctx context.Context, collection string, record interface{}) error {
	resp, err := c.request(ctx).
		SetError(&apiError{}).
		SetHeader("Prefer", "return=minimal").
		SetBody(record).
		Post("/rest/v1/" + collection)
	if err != nil {
		return fmt.Errorf("insert %s: %w", collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("insert %s: %w", collection, remoteFailure(resp, resp.Error().(*apiError)))
	}
	return nil
}

// Update implements Store.
func (c *RESTClient) Update(ctx context.Context, collection string, patch interface{}, filters []Filter) error {
	r := c.request(ctx).
		SetError(&apiError{}).
		SetHeader("Prefer", "return=minimal").
		SetBody(patch)
	filterParams(r, filters, nil)

	resp, err := r.Patch("/rest/v1/" + collection)
	if err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("update %s: %w", collection, remoteFailure(resp, resp.Error().(*apiError)))
	}
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// SignIn implements Auth.
func (c *RESTClient) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var tok tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&tok).
		SetError(&apiError{}).
		Post("/auth/v1/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("sign in: %w", remoteFailure(resp, resp.Error().(*apiError)))
	}

	sess, err := sessionFromToken(&tok)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	c.setSession(sess)
	c.log.Info().Str("user_id", sess.UserID.String()).Msg("signed in")
	return sess, nil
}

// sessionFromToken builds a Session from the token grant. The access token
// is a JWT issued by the service; it is parsed without verification because
// the service, not this client, is the verifying party.
func sessionFromToken(tok *tokenResponse) (*Session, error) {
	sess := &Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Email:        tok.User.Email,
	}
	if tok.ExpiresIn > 0 {
		sess.ExpiresAt = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			sess.ExpiresAt = exp.Time
		}
		if sub, err := claims.GetSubject(); err == nil && sub != "" && tok.User.ID == "" {
			tok.User.ID = sub
		}
	}

	userID, err := uuid.Parse(tok.User.ID)
	if err != nil {
		return nil, fmt.Errorf("token carries no usable user id: %w", err)
	}
	sess.UserID = userID
	return sess, nil
}

// SignOut implements Auth. The local session is always discarded, even when
// the remote revocation fails, so the caller never keeps an
// authenticated-looking state over a dead token.
func (c *RESTClient) SignOut(ctx context.Context) error {
	token := c.bearer()
	c.setSession(nil)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.apiKey).
		SetHeader("Authorization", "Bearer "+token).
		SetError(&apiError{}).
		Post("/auth/v1/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sign out: %w", remoteFailure(resp, resp.Error().(*apiError)))
	}
	return nil
}

// CurrentSession implements Auth.
func (c *RESTClient) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// OnSessionChange implements Auth.
func (c *RESTClient) OnSessionChange(fn func(*Session)) func() {
	c.mu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *RESTClient) setSession(sess *Session) {
	c.mu.Lock()
	c.session = sess
	if c.expiryTimer != nil {
		c.expiryTimer.Stop()
		c.expiryTimer = nil
	}
	if sess != nil && !sess.ExpiresAt.IsZero() {
		c.expiryTimer = time.AfterFunc(time.Until(sess.ExpiresAt), func() {
			c.expire(sess)
		})
	}
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(sess)
	}
}

// expire clears the session when its token lapses without an explicit sign
// out, re-entering the unauthenticated state.
func (c *RESTClient) expire(sess *Session) {
	c.mu.Lock()
	if c.session != sess {
		c.mu.Unlock()
		return
	}
	c.session = nil
	c.expiryTimer = nil
	fns := make([]func(*Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	c.log.Info().Str("user_id", sess.UserID.String()).Msg("session expired")
	for _, fn := range fns {
		fn(nil)
	}
}
