package integration

import (
	"context"
	"net/url"
	"time"

	"crm-dashboard-service/internal/format"
	"crm-dashboard-service/internal/model"
)

// whatsAppIntegration is a declared-but-unbuilt adapter for the WhatsApp
// Business API. Connect already produces a valid authorization URL; the
// data operations are placeholders.
type whatsAppIntegration struct {
	clientID    string
	redirectURL string
	now         func() time.Time
}

// NewWhatsApp builds the WhatsApp adapter placeholder.
func NewWhatsApp(clientID, redirectURL string) Integration {
	return &whatsAppIntegration{
		clientID:    clientID,
		redirectURL: redirectURL,
		now:         time.Now,
	}
}

func (w *whatsAppIntegration) Name() string        { return "whatsapp" }
func (w *whatsAppIntegration) DisplayName() string { return "WhatsApp Business" }
func (w *whatsAppIntegration) Description() string {
	return "WhatsApp Business API integration for messages and leads"
}

func (w *whatsAppIntegration) Connect(ctx context.Context, userID string) (string, error) {
	authURL := url.URL{
		Scheme: "https",
		Host:   "business.whatsapp.com",
		Path:   "/oauth/authorize",
	}
	params := url.Values{
		"client_id":     {w.clientID},
		"redirect_uri":  {w.redirectURL},
		"scope":         {"whatsapp_business_messaging"},
		"response_type": {"code"},
		"state":         {userID},
	}
	authURL.RawQuery = params.Encode()
	return authURL.String(), nil
}

func (w *whatsAppIntegration) Disconnect(ctx context.Context, integrationID string) error {
	return ErrNotImplemented
}

func (w *whatsAppIntegration) GetMetrics(ctx context.Context, integrationID string) ([]model.Metric, error) {
	today := w.now().UTC().Format(dateLayout)
	names := []string{"Messages Sent", "Messages Delivered", "Messages Read"}
	metrics := make([]model.Metric, 0, len(names))
	for _, name := range names {
		metrics = append(metrics, model.Metric{
			Name:         name,
			DisplayValue: format.Abbreviate(0),
			ChangeType:   "increase",
			Period:       "day",
			Date:         today,
		})
	}
	return metrics, nil
}

func (w *whatsAppIntegration) GetLeads(ctx context.Context, integrationID string) ([]model.Lead, error) {
	return []model.Lead{}, nil
}

func (w *whatsAppIntegration) IsConnected(ctx context.Context, userID string) (bool, error) {
	return false, nil
}

func (w *whatsAppIntegration) GetConnectionStatus(ctx context.Context, userID string) (model.ConnectionStatus, error) {
	return model.ConnectionStatus{
		Connected: false,
		Error:     "whatsapp integration is not implemented yet",
	}, nil
}
