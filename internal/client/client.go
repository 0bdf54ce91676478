package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/soundmint/internal/domain"
)

// Entity names a dashboard listing.
type Entity string

const (
	EntityUsers        Entity = "users"
	EntityArtists      Entity = "artists"
	EntityTracks       Entity = "tracks"
	EntityNfts         Entity = "nfts"
	EntityApplications Entity = "applications"
)

// ParseEntity matches s against the dashboard listings.
func ParseEntity(s string) (Entity, bool) {
	for _, e := range []Entity{EntityUsers, EntityArtists, EntityTracks, EntityNfts, EntityApplications} {
		if strings.EqualFold(strings.TrimSpace(s), string(e)) {
			return e, true
		}
	}
	return "", false
}

// AuthResult is returned by every login flow.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// Client calls the soundmint API. Requests carry the session's bearer token
// when one is set.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for cfg.APIBaseURL. A nil session keeps an in-memory one.
func New(cfg Config, session *Session, opts ...Option) *Client {
	if session == nil {
		session = NewSession("")
	}
	c := &Client{
		baseURL: strings.TrimSuffix(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// do sends a request and decodes the data field of the response envelope
// into out, which may be nil.
func (c *Client) do(ctx context.Context, method, path, query string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if query != "" {
		u += "?" + query
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// Login signs in with email and password and stores the token in the session.
func (c *Client) Login(ctx context.Context, form LoginForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/auth/login", form)
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, form RegisterForm) (*AuthResult, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return c.authenticate(ctx, "/auth/register", form)
}

func (c *Client) authenticate(ctx context.Context, path string, form any) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, http.MethodPost, path, "", form, &res); err != nil {
		return nil, err
	}
	if err := c.session.Set(res.Token, res.ExpiresAt, res.User); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout revokes the session token on the server and clears the session.
// A token the server already rejects counts as signed out.
func (c *Client) Logout(ctx context.Context) error {
	if c.session.Token() != "" {
		err := c.do(ctx, http.MethodPost, "/auth/logout", "", nil, nil)
		var apiErr *APIError
		if err != nil && !(errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized) {
			return err
		}
	}
	return c.session.Clear()
}

// ListDashboard fetches one page of an admin listing.
func ListDashboard[T any](ctx context.Context, c *Client, entity Entity, f Filter, s Sorting) (*domain.Page[T], error) {
	if _, ok := ParseEntity(string(entity)); !ok {
		return nil, fmt.Errorf("unknown listing %q", entity)
	}
	var page domain.Page[T]
	if err := c.do(ctx, http.MethodGet, "/dashboard/"+string(entity), EncodeQuery(f, s), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ActiveApplications returns the number of pending artist applications.
func (c *Client) ActiveApplications(ctx context.Context) (int64, error) {
	var n int64
	if err := c.do(ctx, http.MethodGet, "/dashboard/active-applications", "", nil, &n); err != nil {
		return 0, err
	}
	return n, nil
}

// ReviewApplication approves or rejects an artist application.
func (c *Client) ReviewApplication(ctx context.Context, id uint, form ReviewForm) (*domain.ArtistApplication, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	var app domain.ArtistApplication
	if err := c.do(ctx, http.MethodPatch, "/artists/applications/"+idPath(id), "", form, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Referral returns a user's referral progress.
func (c *Client) Referral(ctx context.Context, userID uint) (*domain.ReferralSummary, error) {
	var sum domain.ReferralSummary
	if err := c.do(ctx, http.MethodGet, "/referrals/"+idPath(userID), "", nil, &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}

// ClaimMilestone claims a reached referral milestone.
func (c *Client) ClaimMilestone(ctx context.Context, milestoneID uint) (*domain.MilestoneClaim, error) {
	var claim domain.MilestoneClaim
	body := map[string]uint{"milestoneId": milestoneID}
	if err := c.do(ctx, http.MethodPost, "/referrals/milestones", "", body, &claim); err != nil {
		return nil, err
	}
	return &claim, nil
}

// Nft returns an NFT with its like state for the signed-in user.
func (c *Client) Nft(ctx context.Context, id uint) (*domain.NftDetail, error) {
	var n domain.NftDetail
	if err := c.do(ctx, http.MethodGet, "/nfts/"+idPath(id), "", nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// LikeNft likes an NFT. Liking twice is harmless.
func (c *Client) LikeNft(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, "/nfts/liked", "", map[string]uint{"nftId": id}, nil)
}

// UnlikeNft removes a like.
func (c *Client) UnlikeNft(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/nfts/liked/"+idPath(id), "", nil, nil)
}

// RecordPurchase stores the transaction of a completed mint.
func (c *Client) RecordPurchase(ctx context.Context, nftID uint, form PurchaseForm) (*domain.NftPurchase, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	var p domain.NftPurchase
	if err := c.do(ctx, http.MethodPost, "/nfts/"+idPath(nftID)+"/purchases", "", form, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func idPath(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
