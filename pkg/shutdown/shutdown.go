// Package shutdown stops running EC2 instances, either across every enabled
// region or in a single region.
//
// Regions are processed one after another. In the multi-region run a failure
// in one region is logged and skipped so the remaining regions are still
// attempted; in the single-region run any failure is returned to the caller.
package shutdown

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/younsl/ec2stop/internal/logger"
	"github.com/younsl/ec2stop/internal/models"
	"github.com/younsl/ec2stop/pkg/aws"
)

// InstanceController lists and stops instances in one region.
type InstanceController interface {
	Region() string
	GetRunningInstances(ctx context.Context) ([]models.RunningInstance, error)
	StopInstances(ctx context.Context, instanceIDs []string) ([]models.InstanceRecord, error)
}

// RegionLister enumerates the regions to process.
type RegionLister interface {
	ListRegions(ctx context.Context) ([]string, error)
}

// ClientFactory returns an InstanceController bound to region.
type ClientFactory func(region string) (InstanceController, error)

// Service runs the shutdown operations.
type Service struct {
	regions   RegionLister
	newClient ClientFactory
	log       *slog.Logger
}

// New creates a Service. regions may be nil when only StopRegion is used.
func New(regions RegionLister, newClient ClientFactory, log *slog.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		regions:   regions,
		newClient: newClient,
		log:       log,
	}
}

// StopAllRegions stops every running instance in every enabled region.
// Only a failure to enumerate regions is returned as an error.
func (s *Service) StopAllRegions(ctx context.Context) (*models.MultiRegionResult, error) {
	log := logger.DeriveRequestLogger(ctx, s.log)

	if s.regions == nil {
		return nil, fmt.Errorf("no region lister configured")
	}

	regions, err := s.regions.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("regions enumerated", "count", len(regions))

	result := &models.MultiRegionResult{
		StoppedInstances: []models.InstanceRecord{},
	}

	for _, region := range regions {
		records, stopped, err := s.stopInRegion(ctx, region)
		if err != nil {
			log.Error("error processing region",
				"region", region,
				"error", err,
				"error_code", aws.ErrorCode(err))
			result.FailedRegions = append(result.FailedRegions, models.RegionFailure{Region: region, Err: err})
			continue
		}

		if stopped == 0 {
			log.Info("no running instances found in region", "region", region)
			continue
		}

		result.StoppedInstances = append(result.StoppedInstances, records...)
		result.TotalInstancesStopped += stopped
		log.Info("stopped instances in region", "region", region, "count", stopped)
	}

	result.TotalRegionsProcessed = len(regions)
	result.Message = fmt.Sprintf("Successfully stopped %d EC2 instances", result.TotalInstancesStopped)

	log.Info("shutdown completed",
		"stopped", result.TotalInstancesStopped,
		"regions", result.TotalRegionsProcessed,
		"failed_regions", len(result.FailedRegions))

	return result, nil
}

// StopRegion stops every running instance in region. Any failure aborts the
// operation and is returned.
func (s *Service) StopRegion(ctx context.Context, region string) (*models.SingleRegionResult, error) {
	log := logger.DeriveRequestLogger(ctx, s.log).With("region", region)

	records, stopped, err := s.stopInRegion(ctx, region)
	if err != nil {
		return nil, err
	}

	result := &models.SingleRegionResult{
		StoppedInstances:      records,
		Region:                region,
		TotalInstancesStopped: stopped,
	}

	if stopped == 0 {
		result.Message = fmt.Sprintf("No running instances found in region %s", region)
		log.Info("no running instances found in region")
		return result, nil
	}

	result.Message = fmt.Sprintf("Successfully stopped %d EC2 instances in region %s", stopped, region)
	log.Info("stopped instances in region", "count", stopped)

	return result, nil
}

// stopInRegion lists running instances in region and requests a stop for all
// of them. It returns the reported transitions and the number of IDs sent.
func (s *Service) stopInRegion(ctx context.Context, region string) ([]models.InstanceRecord, int, error) {
	client, err := s.newClient(region)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating EC2 client for region %s: %w", region, err)
	}

	instances, err := client.GetRunningInstances(ctx)
	if err != nil {
		return nil, 0, err
	}

	if len(instances) == 0 {
		return []models.InstanceRecord{}, 0, nil
	}

	instanceIDs := make([]string, 0, len(instances))
	byID := make(map[string]models.RunningInstance, len(instances))
	for _, instance := range instances {
		instanceIDs = append(instanceIDs, instance.InstanceID)
		byID[instance.InstanceID] = instance
	}

	records, err := client.StopInstances(ctx, instanceIDs)
	if err != nil {
		return nil, 0, err
	}

	for i := range records {
		if instance, ok := byID[records[i].InstanceID]; ok {
			records[i].Name = instance.Name
			records[i].InstanceType = instance.InstanceType
		}
	}

	return records, len(instanceIDs), nil
}
