package fetcher

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/config"
	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/weather"
)

const testToken = "CWB-TEST-TOKEN"

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return NewClient(&config.Config{
		BaseURL:       baseURL,
		APIToken:      testToken,
		FetchTimeout:  5 * time.Second,
		RainfallLimit: 100,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func serveFixture(t *testing.T, dataset, fixture string) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("testdata", fixture))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+dataset, r.URL.Path)
		assert.Equal(t, testToken, r.URL.Query().Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchStations(t *testing.T) {
	srv := serveFixture(t, DatasetStations, "stations_response.json")

	stations, err := testClient(t, srv.URL).FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)

	taipei := stations[0]
	assert.Equal(t, "466920", taipei.ID)
	assert.Equal(t, "臺北", taipei.Name)
	assert.Equal(t, 25.0377, taipei.Lat)
	assert.Equal(t, 121.5149, taipei.Lon)
	assert.Equal(t, "2023-06-20 14:00:00", taipei.ObsTime)
	assert.Equal(t, "臺北市", taipei.County())
	assert.Equal(t, weather.Of(32.4), taipei.Element("TEMP"))
	assert.Equal(t, weather.Of(34), taipei.Element("D_TX"))
	assert.False(t, taipei.Element("HUMD").Valid)

	banqiao := stations[1]
	assert.Equal(t, 24.9932, banqiao.Lat)
	assert.False(t, banqiao.Element("TEMP").Valid, "numeric -99 is the sentinel")
	assert.Equal(t, "新北市", banqiao.County())
}

func TestFetchRainfall(t *testing.T) {
	var query string
	body, err := os.ReadFile(filepath.Join("testdata", "rainfall_response.json"))
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	stations, err := testClient(t, srv.URL).FetchRainfall(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)

	assert.Contains(t, query, "limit=100")
	assert.Contains(t, query, "parameterName=CITY")
	assert.Equal(t, weather.Of(24), stations[0].Element("HOUR_24"))
	assert.Equal(t, weather.Of(0.5), stations[0].ElementAt("MIN_10", 2))
	assert.False(t, stations[0].Element("latest_3days").Valid)
}

func TestFetchUV(t *testing.T) {
	srv := serveFixture(t, DatasetUV, "uv_response.json")

	readings, err := testClient(t, srv.URL).FetchUV(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []UVReading{
		{LocationCode: "466920", Value: weather.Of(7.5)},
		{LocationCode: "466990", Value: weather.Of(3)},
		{LocationCode: "467410", Value: weather.Value{}},
	}, readings)
}

func TestFetch_MissingToken(t *testing.T) {
	c := testClient(t, "http://127.0.0.1:1")
	c.token = ""

	_, err := c.FetchStations(context.Background())
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).FetchUV(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestFetch_APIReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":"false","records":{}}`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).FetchStations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API reported failure")
}

func TestFetch_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records": [`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv.URL).FetchRainfall(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decode"), err.Error())
}

func TestFetch_InvalidCoordinateSkipsStation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"records":{"location":[` +
			`{"lat":"north","lon":"121","stationId":"X"},` +
			`{"lat":"25.03","lon":"121.51","stationId":"466920","locationName":"臺北"},` +
			`{"lat":"23.97","lon":"","stationId":"Y"}]}}`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	c := testClient(t, srv.URL)
	c.logger = slog.New(slog.NewTextHandler(&logs, nil))

	stations, err := c.FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "466920", stations[0].ID)

	assert.Equal(t, 2, strings.Count(logs.String(), "level=WARN"))
	assert.Contains(t, logs.String(), `invalid lat \"north\"`)
	assert.Contains(t, logs.String(), "station Y: invalid lon")
}

func TestFetch_ContextCanceled(t *testing.T) {
	srv := serveFixture(t, DatasetStations, "stations_response.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(t, srv.URL).FetchStations(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
