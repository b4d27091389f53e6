package model

import (
	"time"

	"github.com/google/uuid"
)

// Metric names pulled from the Graph API page insights edge.
const (
	MetricPageImpressions     = "page_impressions"
	MetricPageReach           = "page_reach"
	MetricPageEngagedUsers    = "page_engaged_users"
	MetricPagePostEngagements = "page_post_engagements"
	MetricPageClicks          = "page_clicks"
	MetricPageFans            = "page_fans"
)

// InsightMetrics is the fixed metric set synced for every page.
var InsightMetrics = []string{
	MetricPageImpressions,
	MetricPageReach,
	MetricPageEngagedUsers,
	MetricPagePostEngagements,
	MetricPageClicks,
	MetricPageFans,
}

// InsightRow is one persisted metric value for one integration over one period.
// Uniqueness key: (integration_id, metric_name, metric_period, date_start, date_end).
type InsightRow struct {
	IntegrationID uuid.UUID
	MetricName    string
	MetricValue   int64
	MetricPeriod  string
	DateStart     time.Time
	DateEnd       time.Time
}

// InsightPoint is one value of a metric series as rendered by the dashboard.
type InsightPoint struct {
	Date   string `json:"date"`
	Value  int64  `json:"value"`
	Period string `json:"period"`
}

// Metric is the normalized shape every adapter reports metrics in.
// DisplayValue is the abbreviated form the dashboard charts label with.
type Metric struct {
	Name         string `json:"name"`
	Value        int64  `json:"value"`
	DisplayValue string `json:"display_value"`
	Change       int64  `json:"change"`
	ChangeType   string `json:"change_type"`
	Period       string `json:"period"`
	Date         string `json:"date"`
}
