package shutdown

import (
	"log/slog"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/younsl/ec2stop/pkg/aws"
)

// NewEC2ClientFactory derives regional EC2 clients from one loaded AWS config.
func NewEC2ClientFactory(cfg sdkaws.Config) ClientFactory {
	return func(region string) (InstanceController, error) {
		return aws.NewEC2Client(cfg, region), nil
	}
}

// NewFromConfig creates a Service backed by EC2. Regions are enumerated
// through the config's home region.
func NewFromConfig(cfg sdkaws.Config, log *slog.Logger) *Service {
	return New(aws.NewEC2Client(cfg, ""), NewEC2ClientFactory(cfg), log)
}
