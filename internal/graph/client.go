// Package graph is a thin client for the Facebook Graph API: OAuth code
// exchange plus the handful of GET edges the dashboard syncs from.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Permissions requested when connecting a page.
var Permissions = []string{
	"pages_show_list",
	"pages_read_engagement",
	"pages_manage_metadata",
	"ads_read",
	"leads_retrieval",
}

// Client issues requests against the Graph API. All calls are stateless;
// failures surface as wrapped errors carrying the provider's message.
type Client interface {
	// AuthCodeURL builds the OAuth dialog redirect for the given state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// CurrentUser resolves the token owner's id and name.
	CurrentUser(ctx context.Context, accessToken string) (User, error)

	// Accounts lists the pages the token can manage.
	Accounts(ctx context.Context, accessToken string) ([]Page, error)

	// PageInsights fetches one metric for one page over [since, until].
	PageInsights(ctx context.Context, accessToken, pageID, metric, since, until string) ([]Insight, error)

	// LeadgenForms lists lead-generation forms for a page.
	LeadgenForms(ctx context.Context, accessToken, pageID string) ([]LeadForm, error)

	// Leads lists submissions of one lead-generation form.
	Leads(ctx context.Context, accessToken, formID string) ([]Lead, error)
}

// Config carries the Meta app credentials and endpoint overrides.
type Config struct {
	AppID       string
	AppSecret   string
	RedirectURL string
	Version     string

	// BaseURL and AuthBaseURL override the Graph endpoints, used by tests.
	BaseURL     string
	AuthBaseURL string

	HTTPClient *http.Client
}

type client struct {
	oauth   oauth2.Config
	baseURL string
	version string
	http    *http.Client
}

// NewClient builds a Graph API client for one Meta app.
func NewClient(cfg Config) Client {
	base := cfg.BaseURL
	if base == "" {
		base = "https://graph.facebook.com"
	}
	authBase := cfg.AuthBaseURL
	if authBase == "" {
		authBase = "https://www.facebook.com"
	}
	version := cfg.Version
	if version == "" {
		version = "v18.0"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &client{
		oauth: oauth2.Config{
			ClientID:     cfg.AppID,
			ClientSecret: cfg.AppSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authBase + path.Join("/", version, "/dialog/oauth"),
				TokenURL:  base + path.Join("/", version, "/oauth/access_token"),
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: cfg.RedirectURL,
			// Facebook expects a comma-separated scope list.
			Scopes: []string{strings.Join(Permissions, ",")},
		},
		baseURL: base,
		version: version,
		http:    httpClient,
	}
}

func (c *client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

func (c *client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		if ret, ok := err.(*oauth2.RetrieveError); ok {
			var res struct {
				Error *apiError `json:"error"`
			}
			if json.Unmarshal(ret.Body, &res) == nil && res.Error != nil {
				return nil, fmt.Errorf("token exchange: %s", res.Error.Message)
			}
		}
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	return tok, nil
}

// User is the token owner as reported by the /me edge.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one entry of the /me/accounts edge. AccessToken, when present,
// is a page-scoped token.
type Page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

// Insight is one metric of the /{page}/insights edge.
type Insight struct {
	Name   string         `json:"name"`
	Period string         `json:"period"`
	Values []InsightValue `json:"values"`
}

// InsightValue is a single dated value of an insight metric.
type InsightValue struct {
	Value   int64
	EndTime string
}

// UnmarshalJSON tolerates non-numeric values: some metrics report maps,
// which count as zero here.
func (v *InsightValue) UnmarshalJSON(b []byte) error {
	var raw struct {
		Value   json.RawMessage `json:"value"`
		EndTime string          `json:"end_time"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	v.EndTime = raw.EndTime
	var n float64
	if len(raw.Value) > 0 && json.Unmarshal(raw.Value, &n) == nil {
		v.Value = int64(n)
	}
	return nil
}

// LeadForm is one entry of the /{page}/leadgen_forms edge.
type LeadForm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Lead is one entry of the /{form}/leads edge.
type Lead struct {
	ID          string      `json:"id"`
	CreatedTime string      `json:"created_time"`
	FieldData   []LeadField `json:"field_data"`
}

// LeadField is one answer of a lead form submission.
type LeadField struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type apiError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FbtraceID string `json:"fbtrace_id"`
}

func (c *client) CurrentUser(ctx context.Context, accessToken string) (User, error) {
	var user User
	params := url.Values{"fields": {"id,name"}, "access_token": {accessToken}}
	if err := c.get(ctx, "/me", params, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (c *client) Accounts(ctx context.Context, accessToken string) ([]Page, error) {
	var res struct {
		Data []Page `json:"data"`
	}
	params := url.Values{"access_token": {accessToken}}
	if err := c.get(ctx, "/me/accounts", params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *client) PageInsights(ctx context.Context, accessToken, pageID, metric, since, until string) ([]Insight, error) {
	var res struct {
		Data []Insight `json:"data"`
	}
	params := url.Values{
		"since":        {since},
		"until":        {until},
		"access_token": {accessToken},
	}
	if err := c.get(ctx, "/"+pageID+"/insights/"+metric, params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *client) LeadgenForms(ctx context.Context, accessToken, pageID string) ([]LeadForm, error) {
	var res struct {
		Data []LeadForm `json:"data"`
	}
	params := url.Values{"access_token": {accessToken}}
	if err := c.get(ctx, "/"+pageID+"/leadgen_forms", params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *client) Leads(ctx context.Context, accessToken, formID string) ([]Lead, error) {
	var res struct {
		Data []Lead `json:"data"`
	}
	params := url.Values{"access_token": {accessToken}}
	if err := c.get(ctx, "/"+formID+"/leads", params, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// get issues one Graph API GET and decodes the response into out.
// Error payloads are decoded from the body regardless of HTTP status,
// since the Graph API reports failures both ways.
func (c *client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqURL := c.baseURL + path.Join("/", c.version, endpoint) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graph request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graph response: %w", err)
	}

	var errRes struct {
		Error *apiError `json:"error"`
	}
	if json.Unmarshal(body, &errRes) == nil && errRes.Error != nil {
		return fmt.Errorf("graph error (code %d): %s", errRes.Error.Code, errRes.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph request %s: unexpected status %s", endpoint, resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse graph response: %w", err)
	}
	return nil
}
