package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"crm-dashboard-service/internal/cache"
	"crm-dashboard-service/internal/format"
	"crm-dashboard-service/internal/graph"
	"crm-dashboard-service/internal/model"
	"crm-dashboard-service/internal/repository"
)

// Outcome codes round-tripped to the dashboard after the OAuth callback.
const (
	OutcomeConnected           = "facebook_connected"
	OutcomeAuthFailed          = "facebook_auth_failed"
	OutcomeMissingParameters   = "missing_parameters"
	OutcomeTokenExchangeFailed = "token_exchange_failed"
	OutcomeUserNotFound        = "user_not_found"
	OutcomeSaveFailed          = "integration_save_failed"
	OutcomeNoPagesFound        = "no_pages_found"
	OutcomeCallbackFailed      = "callback_failed"
)

const (
	facebookProvider = "facebook"
	leadSource       = "Facebook Lead Ads"
	insightWindow    = 30 * 24 * time.Hour
	dateLayout       = "2006-01-02"
	// Lead created_time carries a zone offset without a colon.
	graphTimeLayout = "2006-01-02T15:04:05-0700"
)

// displayNames maps raw metric names to what the dashboard shows.
var displayNames = map[string]string{
	model.MetricPageImpressions:     "Impressions",
	model.MetricPageReach:           "Reach",
	model.MetricPageEngagedUsers:    "Engaged Users",
	model.MetricPagePostEngagements: "Post Engagements",
	model.MetricPageClicks:          "Clicks",
	model.MetricPageFans:            "Followers",
}

// ConnectResult is the terminal state of one OAuth callback. OK is true
// only for the single success outcome; every failure is carried as an
// outcome code, never as an error.
type ConnectResult struct {
	IntegrationID string
	Outcome       string
	OK            bool
}

// InsightSync is the result of one metrics sync: persisted points for the
// trailing window, grouped by metric name and ordered by date.
type InsightSync struct {
	Series   map[string][]model.InsightPoint `json:"series"`
	PageID   string                          `json:"page_id"`
	PageName string                          `json:"page_name"`
}

// Facebook is the Facebook adapter: the shared Integration capability set
// plus the OAuth completion and sync entry points the HTTP layer drives.
type Facebook interface {
	Integration

	// CompleteConnect runs the callback half of the OAuth flow: exchange
	// the code, pick a page, resolve the user from state, persist.
	CompleteConnect(ctx context.Context, code, state, errParam string) ConnectResult

	// SyncInsights pulls the fixed metric set for the trailing window,
	// persists every point idempotently, and returns the stored series.
	SyncInsights(ctx context.Context, integrationID string) (InsightSync, error)

	// SyncLeads pulls lead-form submissions and persists them keyed by
	// external lead id.
	SyncLeads(ctx context.Context, integrationID string) error
}

type facebookIntegration struct {
	graph        graph.Client
	users        repository.UserRepository
	integrations repository.IntegrationRepository
	insights     repository.InsightRepository
	leads        repository.LeadRepository
	statusCache  *cache.Cache
	log          zerolog.Logger
	now          func() time.Time
}

// NewFacebook wires the Facebook adapter.
func NewFacebook(
	graphClient graph.Client,
	users repository.UserRepository,
	integrations repository.IntegrationRepository,
	insights repository.InsightRepository,
	leads repository.LeadRepository,
	statusCache *cache.Cache,
	log zerolog.Logger,
) Facebook {
	return &facebookIntegration{
		graph:        graphClient,
		users:        users,
		integrations: integrations,
		insights:     insights,
		leads:        leads,
		statusCache:  statusCache,
		log:          log.With().Str("integration", facebookProvider).Logger(),
		now:          time.Now,
	}
}

func (f *facebookIntegration) Name() string        { return facebookProvider }
func (f *facebookIntegration) DisplayName() string { return "Facebook" }
func (f *facebookIntegration) Description() string {
	return "Facebook Marketing API integration for page metrics and leads"
}

func (f *facebookIntegration) Connect(ctx context.Context, userID string) (string, error) {
	return f.graph.AuthCodeURL(userID), nil
}

func (f *facebookIntegration) Disconnect(ctx context.Context, integrationID string) error {
	integ, err := f.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return fmt.Errorf("disconnect integration: %w", err)
	}
	if err := f.integrations.Deactivate(ctx, integrationID); err != nil {
		return fmt.Errorf("disconnect integration: %w", err)
	}
	f.statusCache.Delete(ctx, statusCacheKey(integ.UserID.String()))
	return nil
}

// CompleteConnect never returns an error: every failure becomes a
// machine-readable outcome code for the dashboard redirect.
func (f *facebookIntegration) CompleteConnect(ctx context.Context, code, state, errParam string) ConnectResult {
	if errParam != "" {
		f.log.Warn().Str("error", errParam).Msg("facebook authorization denied")
		return ConnectResult{Outcome: OutcomeAuthFailed}
	}
	if code == "" || state == "" {
		return ConnectResult{Outcome: OutcomeMissingParameters}
	}

	token, err := f.graph.Exchange(ctx, code)
	if err != nil {
		f.log.Error().Err(err).Msg("token exchange failed")
		return ConnectResult{Outcome: OutcomeTokenExchangeFailed}
	}

	// Best effort: the provider-side user id is informative only.
	var providerUserID string
	if fbUser, err := f.graph.CurrentUser(ctx, token.AccessToken); err != nil {
		f.log.Warn().Err(err).Msg("could not resolve facebook user")
	} else {
		providerUserID = fbUser.ID
	}

	pages, err := f.graph.Accounts(ctx, token.AccessToken)
	if err != nil {
		f.log.Error().Err(err).Msg("page listing failed")
		return ConnectResult{Outcome: OutcomeCallbackFailed}
	}
	if len(pages) == 0 {
		return ConnectResult{Outcome: OutcomeNoPagesFound}
	}
	// The first page wins; there is no disambiguation step.
	page := pages[0]

	user, err := f.users.GetByExternalUID(ctx, state)
	if err != nil {
		f.log.Error().Err(err).Str("state", state).Msg("callback state matches no user")
		return ConnectResult{Outcome: OutcomeUserNotFound}
	}

	accessToken := page.AccessToken
	if accessToken == "" {
		accessToken = token.AccessToken
	}
	var expiresAt *time.Time
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		expiresAt = &expiry
	}

	integ, err := f.integrations.Upsert(ctx, model.Integration{
		UserID:         user.ID,
		Provider:       facebookProvider,
		PageID:         page.ID,
		PageName:       page.Name,
		ProviderUserID: providerUserID,
		AccessToken:    accessToken,
		Permissions:    graph.Permissions,
		TokenExpiresAt: expiresAt,
	})
	if err != nil {
		f.log.Error().Err(err).Msg("integration upsert failed")
		return ConnectResult{Outcome: OutcomeSaveFailed}
	}

	f.statusCache.Delete(ctx, statusCacheKey(user.ID.String()))
	f.log.Info().Str("page_id", page.ID).Str("page_name", page.Name).Msg("facebook page connected")
	return ConnectResult{IntegrationID: integ.ID.String(), Outcome: OutcomeConnected, OK: true}
}

func (f *facebookIntegration) SyncInsights(ctx context.Context, integrationID string) (InsightSync, error) {
	integ, err := f.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return InsightSync{}, fmt.Errorf("sync insights: %w", err)
	}

	until := f.now().UTC()
	since := until.Add(-insightWindow)
	sinceDay := since.Format(dateLayout)
	untilDay := until.Format(dateLayout)

	// One request per metric, concurrently. A metric's failure is logged
	// and yields zero points for that metric only.
	results := make([][]model.InsightRow, len(model.InsightMetrics))
	var g errgroup.Group
	for i, metric := range model.InsightMetrics {
		i, metric := i, metric
		g.Go(func() error {
			data, err := f.graph.PageInsights(ctx, integ.AccessToken, integ.PageID, metric, sinceDay, untilDay)
			if err != nil {
				f.log.Warn().Err(err).Str("metric", metric).Msg("metric sync failed")
				return nil
			}
			results[i] = flattenInsights(integ.ID, metric, data, since, until)
			return nil
		})
	}
	_ = g.Wait()

	var rows []model.InsightRow
	for _, part := range results {
		rows = append(rows, part...)
	}
	if err := f.insights.UpsertBatch(ctx, rows); err != nil {
		f.log.Error().Err(err).Msg("insight upsert failed")
	}

	stored, err := f.insights.ListByIntegration(ctx, integ.ID, since, until)
	if err != nil {
		return InsightSync{}, fmt.Errorf("read insights: %w", err)
	}

	series := make(map[string][]model.InsightPoint)
	for _, row := range stored {
		series[row.MetricName] = append(series[row.MetricName], model.InsightPoint{
			Date:   row.DateStart.Format(dateLayout),
			Value:  row.MetricValue,
			Period: row.MetricPeriod,
		})
	}
	return InsightSync{Series: series, PageID: integ.PageID, PageName: integ.PageName}, nil
}

// flattenInsights turns one metric's response into persistable rows.
// A value dated by end_time spans that single day; undated values span
// the whole requested window.
func flattenInsights(integrationID uuid.UUID, metric string, data []graph.Insight, since, until time.Time) []model.InsightRow {
	var rows []model.InsightRow
	for _, insight := range data {
		period := insight.Period
		if period == "" {
			period = "day"
		}
		for _, value := range insight.Values {
			dateStart, dateEnd := since, until
			if day, err := time.Parse(dateLayout, dateOf(value.EndTime)); err == nil {
				dateStart, dateEnd = day, day
			}
			rows = append(rows, model.InsightRow{
				IntegrationID: integrationID,
				MetricName:    metric,
				MetricValue:   value.Value,
				MetricPeriod:  period,
				DateStart:     dateStart,
				DateEnd:       dateEnd,
			})
		}
	}
	return rows
}

// dateOf truncates a Graph API timestamp to its date part.
func dateOf(ts string) string {
	if i := strings.IndexByte(ts, 'T'); i > 0 {
		return ts[:i]
	}
	return ts
}

func (f *facebookIntegration) SyncLeads(ctx context.Context, integrationID string) error {
	integ, err := f.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return fmt.Errorf("sync leads: %w", err)
	}

	forms, err := f.graph.LeadgenForms(ctx, integ.AccessToken, integ.PageID)
	if err != nil {
		f.log.Error().Err(err).Msg("lead form listing failed")
		return nil
	}

	for _, form := range forms {
		leads, err := f.graph.Leads(ctx, integ.AccessToken, form.ID)
		if err != nil {
			f.log.Warn().Err(err).Str("form_id", form.ID).Msg("lead listing failed")
			continue
		}
		for _, lead := range leads {
			row := model.LeadRow{
				IntegrationID:  integ.ID,
				ExternalLeadID: lead.ID,
				FormID:         form.ID,
				FormName:       form.Name,
				FieldData:      flattenLeadFields(lead.FieldData),
				CreatedTime:    parseGraphTime(lead.CreatedTime, f.now()),
			}
			if err := f.leads.Upsert(ctx, row); err != nil {
				f.log.Warn().Err(err).Str("lead_id", lead.ID).Msg("lead upsert failed")
			}
		}
	}
	return nil
}

func (f *facebookIntegration) GetMetrics(ctx context.Context, integrationID string) ([]model.Metric, error) {
	integ, err := f.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("get metrics: %w", err)
	}

	until := f.now().UTC()
	since := until.Add(-insightWindow)
	rows, err := f.insights.ListByIntegration(ctx, integ.ID, since, until)
	if err != nil {
		return nil, fmt.Errorf("get metrics: %w", err)
	}

	// Rows arrive ordered by date ascending; the last two per metric give
	// the latest value and its change.
	grouped := make(map[string][]model.InsightRow)
	var order []string
	for _, row := range rows {
		if _, seen := grouped[row.MetricName]; !seen {
			order = append(order, row.MetricName)
		}
		grouped[row.MetricName] = append(grouped[row.MetricName], row)
	}

	metrics := make([]model.Metric, 0, len(order))
	for _, name := range order {
		series := grouped[name]
		latest := series[len(series)-1]
		var previous int64
		if len(series) > 1 {
			previous = series[len(series)-2].MetricValue
		}
		change := latest.MetricValue - previous
		changeType := "increase"
		if change < 0 {
			changeType = "decrease"
		}
		metrics = append(metrics, model.Metric{
			Name:         metricDisplayName(name),
			Value:        latest.MetricValue,
			DisplayValue: format.Abbreviate(latest.MetricValue),
			Change:       change,
			ChangeType:   changeType,
			Period:       latest.MetricPeriod,
			Date:         latest.DateStart.Format(dateLayout),
		})
	}
	return metrics, nil
}

func (f *facebookIntegration) GetLeads(ctx context.Context, integrationID string) ([]model.Lead, error) {
	integ, err := f.integrations.GetByID(ctx, integrationID)
	if err != nil {
		return nil, fmt.Errorf("get leads: %w", err)
	}

	rows, err := f.leads.ListByIntegration(ctx, integ.ID)
	if err != nil {
		return nil, fmt.Errorf("get leads: %w", err)
	}

	leads := make([]model.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, model.Lead{
			ID:        row.ID.String(),
			Source:    leadSource,
			Name:      firstOf(row.FieldData, "name", "full_name"),
			Email:     row.FieldData["email"],
			Phone:     firstOf(row.FieldData, "phone_number", "phone"),
			Data:      row.FieldData,
			CreatedAt: row.CreatedTime,
			Status:    row.Status,
		})
	}
	return leads, nil
}

func (f *facebookIntegration) IsConnected(ctx context.Context, userID string) (bool, error) {
	status, err := f.GetConnectionStatus(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.Connected, nil
}

func (f *facebookIntegration) GetConnectionStatus(ctx context.Context, userID string) (model.ConnectionStatus, error) {
	user, err := f.users.GetByExternalUID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ConnectionStatus{Connected: false, Error: "user not found"}, nil
	}
	if err != nil {
		return model.ConnectionStatus{}, fmt.Errorf("connection status: %w", err)
	}

	cacheKey := statusCacheKey(user.ID.String())
	var cached model.ConnectionStatus
	if f.statusCache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	integ, err := f.integrations.GetActiveByUser(ctx, user.ID, facebookProvider)
	if errors.Is(err, repository.ErrNotFound) {
		return model.ConnectionStatus{Connected: false}, nil
	}
	if err != nil {
		return model.ConnectionStatus{}, fmt.Errorf("connection status: %w", err)
	}

	lastSync := integ.UpdatedAt
	status := model.ConnectionStatus{
		Connected:    true,
		ConnectionID: integ.ID.String(),
		AccountName:  integ.PageName,
		AccountID:    integ.PageID,
		LastSync:     &lastSync,
	}
	f.statusCache.Set(ctx, cacheKey, status)
	return status, nil
}

func statusCacheKey(userID string) string {
	return "status:" + facebookProvider + ":" + userID
}

func metricDisplayName(name string) string {
	if display, ok := displayNames[name]; ok {
		return display
	}
	return name
}

// flattenLeadFields reduces the field-data array to a flat name→first-value
// mapping; fields with no values are omitted.
func flattenLeadFields(fields []graph.LeadField) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		if field.Name == "" || len(field.Values) == 0 {
			continue
		}
		out[field.Name] = field.Values[0]
	}
	return out
}

func firstOf(data map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := data[key]; v != "" {
			return v
		}
	}
	return ""
}

func parseGraphTime(raw string, fallback time.Time) time.Time {
	for _, layout := range []string{graphTimeLayout, time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return fallback
}
