package mockgraph

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"crm-dashboard-service/internal/graph"
)

// Client mocks graph.Client.
type Client struct {
	mock.Mock
}

// Interface compliance check
var _ graph.Client = &Client{}

func (m *Client) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*oauth2.Token), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) CurrentUser(ctx context.Context, accessToken string) (graph.User, error) {
	args := m.Called(ctx, accessToken)
	return args.Get(0).(graph.User), args.Error(1)
}

func (m *Client) Accounts(ctx context.Context, accessToken string) ([]graph.Page, error) {
	args := m.Called(ctx, accessToken)
	if v := args.Get(0); v != nil {
		return v.([]graph.Page), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) PageInsights(ctx context.Context, accessToken, pageID, metric, since, until string) ([]graph.Insight, error) {
	args := m.Called(ctx, accessToken, pageID, metric, since, until)
	if v := args.Get(0); v != nil {
		return v.([]graph.Insight), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) LeadgenForms(ctx context.Context, accessToken, pageID string) ([]graph.LeadForm, error) {
	args := m.Called(ctx, accessToken, pageID)
	if v := args.Get(0); v != nil {
		return v.([]graph.LeadForm), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Leads(ctx context.Context, accessToken, formID string) ([]graph.Lead, error) {
	args := m.Called(ctx, accessToken, formID)
	if v := args.Get(0); v != nil {
		return v.([]graph.Lead), args.Error(1)
	}
	return nil, args.Error(1)
}
