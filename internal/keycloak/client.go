package keycloak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/itmspace/user-gateway/internal/apperr"
	"github.com/itmspace/user-gateway/pkg/logger"
	"github.com/itmspace/user-gateway/pkg/metrics"
)

// Client is the narrow interface the service layer depends on. The real
// admin API integration and test doubles are interchangeable behind it.
type Client interface {
	CreateUser(ctx context.Context, rep UserRepresentation) (string, error)
	GetUser(ctx context.Context, id string) (*UserRecord, error)
	SearchByUsername(ctx context.Context, username string) ([]UserRepresentation, error)
	DeleteUser(ctx context.Context, id string) error
}

// AdminClient talks to the Keycloak admin REST API of a single realm using a
// service-account token (client_credentials grant). No user data is cached;
// every call is a fresh round trip. Failures are classified, never retried.
type AdminClient struct {
	baseURL      string
	realm        string
	clientID     string
	clientSecret string
	http         *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewAdminClient builds a client for the given provider base URL and realm.
// Timeout bounds every round trip; on expiry the call surfaces a
// dependency-unavailable error instead of hanging the request.
func NewAdminClient(baseURL, realm, clientID, clientSecret string, timeout time.Duration) *AdminClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AdminClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		realm:        realm,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: timeout},
	}
}

// adminToken returns a cached service-account access token, refreshing it
// via the client_credentials grant when missing or about to expire.
func (c *AdminClient) adminToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	tokenURL := c.baseURL + "/realms/" + c.realm + "/protocol/openid-connect/token"
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "identity provider request could not be built", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "identity provider is unreachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		logger.Errorf("keycloak token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		return "", apperr.New(apperr.KindUnavailable, "identity provider rejected service credentials")
	}

	var tr struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", apperr.Wrap(apperr.KindUnavailable, "identity provider token response is malformed", err)
	}
	c.token = tr.AccessToken
	// refresh slightly early so in-flight calls don't race token expiry
	c.tokenExpiry = time.Now().Add(time.Duration(tr.ExpiresIn)*time.Second - 10*time.Second)
	return c.token, nil
}

// do issues one authenticated admin API request and returns the response.
// Transport failures are classified as dependency-unavailable here; status
// codes are left to the caller since their meaning is operation-specific.
func (c *AdminClient) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	tok, err := c.adminToken(ctx)
	if err != nil {
		return nil, err
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindUnavailable, "identity provider request could not be encoded", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/admin/realms/"+c.realm+path, rd)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "identity provider request could not be built", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "identity provider is unreachable", err)
	}
	return resp, nil
}

// CreateUser registers a new user in the realm and returns the id the
// provider assigned (taken from the Location header of the 201 response).
func (c *AdminClient) CreateUser(ctx context.Context, rep UserRepresentation) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/users", rep)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("create_user", "unavailable").Inc()
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		metrics.ProviderRequests.WithLabelValues("create_user", "ok").Inc()
		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", apperr.New(apperr.KindMapping, "identity provider did not return the new user id")
		}
		parts := strings.Split(strings.TrimRight(loc, "/"), "/")
		return parts[len(parts)-1], nil
	case http.StatusConflict:
		metrics.ProviderRequests.WithLabelValues("create_user", "conflict").Inc()
		return "", apperr.New(apperr.KindConflict, "a user with this username or email already exists")
	default:
		metrics.ProviderRequests.WithLabelValues("create_user", "error").Inc()
		return "", unexpectedStatus("create user", resp)
	}
}

// GetUser fetches the user representation plus its realm role mappings and
// group memberships. Returns a not-found error when the id is unknown.
func (c *AdminClient) GetUser(ctx context.Context, id string) (*UserRecord, error) {
	var rec UserRecord
	if err := c.getJSON(ctx, "/users/"+id, &rec.User); err != nil {
		metrics.ProviderRequests.WithLabelValues("get_user", outcome(err)).Inc()
		return nil, err
	}
	if err := c.getJSON(ctx, "/users/"+id+"/role-mappings/realm", &rec.Roles); err != nil {
		metrics.ProviderRequests.WithLabelValues("get_user", outcome(err)).Inc()
		return nil, err
	}
	if err := c.getJSON(ctx, "/users/"+id+"/groups", &rec.Groups); err != nil {
		metrics.ProviderRequests.WithLabelValues("get_user", outcome(err)).Inc()
		return nil, err
	}
	metrics.ProviderRequests.WithLabelValues("get_user", "ok").Inc()
	return &rec, nil
}

// SearchByUsername returns users whose username matches exactly. An empty
// result is not an error.
func (c *AdminClient) SearchByUsername(ctx context.Context, username string) ([]UserRepresentation, error) {
	path := "/users?exact=true&username=" + url.QueryEscape(username)
	var reps []UserRepresentation
	if err := c.getJSON(ctx, path, &reps); err != nil {
		metrics.ProviderRequests.WithLabelValues("search_users", outcome(err)).Inc()
		return nil, err
	}
	metrics.ProviderRequests.WithLabelValues("search_users", "ok").Inc()
	return reps, nil
}

// DeleteUser removes the user with the given id.
func (c *AdminClient) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/users/"+id, nil)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("delete_user", "unavailable").Inc()
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusOK:
		metrics.ProviderRequests.WithLabelValues("delete_user", "ok").Inc()
		return nil
	case http.StatusNotFound:
		metrics.ProviderRequests.WithLabelValues("delete_user", "not_found").Inc()
		return apperr.New(apperr.KindNotFound, "user does not exist")
	default:
		metrics.ProviderRequests.WithLabelValues("delete_user", "error").Inc()
		return unexpectedStatus("delete user", resp)
	}
}

func (c *AdminClient) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperr.Wrap(apperr.KindMapping, "identity provider returned an unreadable response", err)
		}
		return nil
	case http.StatusNotFound:
		return apperr.New(apperr.KindNotFound, "user does not exist")
	default:
		return unexpectedStatus("fetch", resp)
	}
}

// unexpectedStatus logs the provider response body server-side and returns a
// classified error whose message carries no provider internals.
func unexpectedStatus(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	logger.Errorf("keycloak %s returned %d: %s", op, resp.StatusCode, strings.TrimSpace(string(b)))
	return apperr.New(apperr.KindUnavailable, fmt.Sprintf("identity provider failed to %s", op))
}

func outcome(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return "not_found"
	case apperr.KindUnavailable:
		return "unavailable"
	case apperr.KindConflict:
		return "conflict"
	}
	return "error"
}
