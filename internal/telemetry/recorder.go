package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	datadogapi "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"splitpay/internal/config"
	"splitpay/internal/logging"
)

// Recorder receives one measurement per partner call. Implementations must
// be safe for concurrent use; recording is best-effort and never blocks the
// calling operation on delivery.
type Recorder interface {
	RecordCall(operation string, duration time.Duration, httpStatus int, err error)
}

// NopRecorder discards all measurements
type NopRecorder struct{}

func (NopRecorder) RecordCall(string, time.Duration, int, error) {}

// DatadogRecorder submits partner-call timing and outcome series to the
// Datadog metrics intake.
type DatadogRecorder struct {
	metricsAPI *datadogV2.MetricsApi
	authCtx    context.Context
	env        string
	logger     *logging.Logger
}

// NewRecorder returns a DatadogRecorder when DD_API_KEY is configured, the
// no-op recorder otherwise.
func NewRecorder(env string) Recorder {
	apiKey := config.Get("DD_API_KEY", "")
	if apiKey == "" {
		return NopRecorder{}
	}
	return NewDatadogRecorder(env, apiKey)
}

// NewDatadogRecorder builds a recorder against the configured Datadog site.
func NewDatadogRecorder(env, apiKey string) *DatadogRecorder {
	baseURL := config.Get("DATADOG_BASE_URL", "https://api.datadoghq.com")

	apiCfg := datadogapi.NewConfiguration()
	apiCfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	apiCfg.Servers = datadogapi.ServerConfigurations{{URL: baseURL}}
	apiCfg.OperationServers = map[string]datadogapi.ServerConfigurations{
		"MetricsApi.SubmitMetrics": {{URL: baseURL}},
	}

	apiClient := datadogapi.NewAPIClient(apiCfg)

	authCtx := datadogapi.NewDefaultContext(context.Background())
	authCtx = context.WithValue(authCtx, datadogapi.ContextAPIKeys, map[string]datadogapi.APIKey{
		"apiKeyAuth": {Key: apiKey},
	})

	return &DatadogRecorder{
		metricsAPI: datadogV2.NewMetricsApi(apiClient),
		authCtx:    authCtx,
		env:        env,
		logger:     logging.NewDefaultLogger("telemetry"),
	}
}

// RecordCall submits one duration gauge and one outcome count for the call.
func (r *DatadogRecorder) RecordCall(operation string, duration time.Duration, httpStatus int, err error) {
	now := time.Now().Unix()
	outcome := "ok"
	if err != nil {
		outcome = "transport_error"
	}

	tags := []string{
		"operation:" + operation,
		"env:" + r.env,
		fmt.Sprintf("http_status:%d", httpStatus),
		"outcome:" + outcome,
	}

	series := []datadogV2.MetricSeries{
		{
			Metric: "splitpay.partner.call.duration_ms",
			Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
			Points: []datadogV2.MetricPoint{{
				Timestamp: datadogapi.PtrInt64(now),
				Value:     datadogapi.PtrFloat64(float64(duration.Milliseconds())),
			}},
			Tags: tags,
		},
		{
			Metric: "splitpay.partner.call.count",
			Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
			Points: []datadogV2.MetricPoint{{
				Timestamp: datadogapi.PtrInt64(now),
				Value:     datadogapi.PtrFloat64(1),
			}},
			Tags: tags,
		},
	}

	payload := datadogV2.MetricPayload{Series: series}
	_, httpResp, submitErr := r.metricsAPI.SubmitMetrics(r.authCtx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	if httpResp != nil && httpResp.Body != nil {
		_ = httpResp.Body.Close()
	}
	if submitErr != nil {
		r.logger.Warn("metric submission failed: %v", submitErr)
	}
}
