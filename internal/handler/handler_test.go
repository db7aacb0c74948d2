package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/models"
)

type mockStopper struct {
	stopAllRegionsFunc func(ctx context.Context) (*models.MultiRegionResult, error)
	stopRegionFunc     func(ctx context.Context, region string) (*models.SingleRegionResult, error)
}

func (m *mockStopper) StopAllRegions(ctx context.Context) (*models.MultiRegionResult, error) {
	return m.stopAllRegionsFunc(ctx)
}

func (m *mockStopper) StopRegion(ctx context.Context, region string) (*models.SingleRegionResult, error) {
	return m.stopRegionFunc(ctx, region)
}

func decodeBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &decoded))
	return decoded
}

func TestMultiRegion_Success(t *testing.T) {
	svc := &mockStopper{
		stopAllRegionsFunc: func(_ context.Context) (*models.MultiRegionResult, error) {
			return &models.MultiRegionResult{
				Message: "Successfully stopped 2 EC2 instances",
				StoppedInstances: []models.InstanceRecord{
					{InstanceID: "i-1", Region: "us-east-1", PreviousState: "running", CurrentState: "stopping", Name: "web"},
					{InstanceID: "i-2", Region: "us-east-1", PreviousState: "running", CurrentState: "stopping"},
				},
				TotalRegionsProcessed: 2,
				TotalInstancesStopped: 2,
				FailedRegions:         []models.RegionFailure{{Region: "sa-east-1", Err: errors.New("x")}},
			}, nil
		},
	}

	resp, err := MultiRegion(svc, logger.Discard())(context.Background(), json.RawMessage(`{"source":"aws.events"}`))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.JSONEq(t, `{
		"message": "Successfully stopped 2 EC2 instances",
		"stopped_instances": [
			{"InstanceId": "i-1", "Region": "us-east-1", "PreviousState": "running", "CurrentState": "stopping"},
			{"InstanceId": "i-2", "Region": "us-east-1", "PreviousState": "running", "CurrentState": "stopping"}
		],
		"total_regions_processed": 2
	}`, resp.Body)
}

func TestMultiRegion_EmptyResultKeepsArray(t *testing.T) {
	svc := &mockStopper{
		stopAllRegionsFunc: func(_ context.Context) (*models.MultiRegionResult, error) {
			return &models.MultiRegionResult{
				Message:          "Successfully stopped 0 EC2 instances",
				StoppedInstances: []models.InstanceRecord{},
			}, nil
		},
	}

	resp, err := MultiRegion(svc, logger.Discard())(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"stopped_instances":[]`)
}

func TestMultiRegion_Failure(t *testing.T) {
	svc := &mockStopper{
		stopAllRegionsFunc: func(_ context.Context) (*models.MultiRegionResult, error) {
			return nil, errors.New("error describing regions: access denied")
		},
	}

	resp, err := MultiRegion(svc, logger.Discard())(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{
		"error": "Lambda execution failed",
		"message": "error describing regions: access denied"
	}`, resp.Body)
}

func TestSingleRegion_Success(t *testing.T) {
	var gotRegion string
	svc := &mockStopper{
		stopRegionFunc: func(_ context.Context, region string) (*models.SingleRegionResult, error) {
			gotRegion = region
			return &models.SingleRegionResult{
				Message: "Successfully stopped 1 EC2 instances in region eu-west-1",
				StoppedInstances: []models.InstanceRecord{
					{InstanceID: "i-1", Region: region, PreviousState: "running", CurrentState: "stopping"},
				},
				Region:                region,
				TotalInstancesStopped: 1,
			}, nil
		},
	}

	resp, err := SingleRegion(svc, "eu-west-1", logger.Discard())(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", gotRegion)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "eu-west-1", body["region"])
	assert.EqualValues(t, 1, body["total_instances_stopped"])
	assert.Len(t, body["stopped_instances"], 1)
}

func TestSingleRegion_Failure(t *testing.T) {
	svc := &mockStopper{
		stopRegionFunc: func(_ context.Context, _ string) (*models.SingleRegionResult, error) {
			return nil, errors.New("error stopping EC2 instances: boom")
		},
	}

	resp, err := SingleRegion(svc, "us-east-1", logger.Discard())(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, models.ExecutionFailedLabel, body["error"])
	assert.Equal(t, "error stopping EC2 instances: boom", body["message"])
	assert.NotContains(t, body, "stopped_instances")
}

func TestFailure(t *testing.T) {
	resp := Failure(errors.New(`quote " inside`))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, `quote " inside`, body["message"])
}
