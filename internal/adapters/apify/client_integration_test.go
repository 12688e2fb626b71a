//go:build integration

package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// WireMockContainer stands in for the Apify API.
type WireMockContainer struct {
	testcontainers.Container
	baseURL string
}

// setupWireMock starts a WireMock container with its admin API exposed.
func setupWireMock(ctx context.Context) (*WireMockContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{"8080/tcp"},
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort("8080/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host: %w", err)
	}

	port, err := container.MappedPort(ctx, "8080")
	if err != nil {
		return nil, fmt.Errorf("failed to get port: %w", err)
	}

	return &WireMockContainer{
		Container: container,
		baseURL:   fmt.Sprintf("http://%s:%s", host, port.Port()),
	}, nil
}

// stub registers one request mapping.
func (w *WireMockContainer) stub(t *testing.T, mapping map[string]any) {
	t.Helper()

	body, err := json.Marshal(mapping)
	require.NoError(t, err)

	res, err := http.Post(w.baseURL+"/__admin/mappings", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func jsonResponse(status int, body any) map[string]any {
	return map[string]any{
		"status":   status,
		"headers":  map[string]string{"Content-Type": "application/json"},
		"jsonBody": body,
	}
}

func TestIntegration_Client_CallActorAndListItems(t *testing.T) {
	ctx := context.Background()

	mock, err := setupWireMock(ctx)
	if err != nil {
		t.Fatalf("Failed to setup WireMock container: %v", err)
	}
	defer mock.Terminate(ctx)

	mock.stub(t, map[string]any{
		"request": map[string]any{
			"method":         "POST",
			"urlPathPattern": "/v2/acts/apify~threads-scraper/runs",
			"headers":        map[string]any{"Authorization": map[string]any{"equalTo": "Bearer it-token"}},
		},
		"response": jsonResponse(201, map[string]any{"data": map[string]any{
			"id": "run-it", "status": "RUNNING",
		}}),
	})
	mock.stub(t, map[string]any{
		"request":  map[string]any{"method": "GET", "urlPathPattern": "/v2/actor-runs/run-it"},
		"response": jsonResponse(200, map[string]any{"data": map[string]any{"id": "run-it", "status": "SUCCEEDED", "defaultDatasetId": "ds-it"}}),
	})
	mock.stub(t, map[string]any{
		"request": map[string]any{
			"method":          "GET",
			"urlPathPattern":  "/v2/datasets/ds-it/items",
			"queryParameters": map[string]any{"limit": map[string]any{"equalTo": "5"}},
		},
		"response": jsonResponse(200, []any{map[string]any{"text": "pov: best cafe in town"}}),
	})

	client := New("it-token", WithBaseURL(mock.baseURL), WithTimeout(10*time.Second))

	run, err := client.CallActor(ctx, "apify/threads-scraper", map[string]any{"startUrls": []any{}})
	require.NoError(t, err)
	assert.Equal(t, "ds-it", run.DefaultDatasetID)

	items, err := client.ListItems(ctx, run.DefaultDatasetID, 5)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestIntegration_Client_WrongToken_ReturnsAPIError(t *testing.T) {
	ctx := context.Background()

	mock, err := setupWireMock(ctx)
	if err != nil {
		t.Fatalf("Failed to setup WireMock container: %v", err)
	}
	defer mock.Terminate(ctx)

	mock.stub(t, map[string]any{
		"request": map[string]any{"method": "POST", "urlPathPattern": "/v2/acts/.*/runs"},
		"response": jsonResponse(401, map[string]any{"error": map[string]any{
			"type": "token-not-valid", "message": "Authentication token is not valid.",
		}}),
	})

	_, err = New("wrong", WithBaseURL(mock.baseURL)).CallActor(ctx, "apify/threads-scraper", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.StatusCode)
}
