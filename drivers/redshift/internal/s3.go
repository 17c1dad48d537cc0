package driver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/datazip-inc/sparkify/utils/logger"
	"golang.org/x/sync/errgroup"
)

// objectLister is the part of the S3 client the preflight needs
type objectLister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// parseS3URI splits s3://bucket/prefix
func parseS3URI(uri string) (string, string, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", "", fmt.Errorf("invalid s3 uri %q: %s", uri, err)
	}
	if parsed.Scheme != "s3" || parsed.Host == "" {
		return "", "", fmt.Errorf("expected s3://bucket/prefix, got %q", uri)
	}
	return parsed.Host, strings.TrimPrefix(parsed.Path, "/"), nil
}

func newS3Client(ctx context.Context, c *Config) (*s3.Client, error) {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(c.S3.Region),
	}

	// Use static credentials if provided, otherwise fall back to default credential chain
	if c.AWS.Key != "" && c.AWS.Secret != "" {
		logger.Info("Using static credentials for S3 preflight")
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AWS.Key, c.AWS.Secret, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %s", err)
	}

	if c.S3.Endpoint != "" {
		logger.Infof("Connecting to S3-compatible endpoint: %s", c.S3.Endpoint)
		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(c.S3.Endpoint)
			o.UsePathStyle = true
		}), nil
	}
	return s3.NewFromConfig(cfg), nil
}

// preflight makes sure every COPY source has at least one object before the warehouse is touched
func preflight(ctx context.Context, client objectLister, uris ...string) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, uri := range uris {
		group.Go(func() error {
			bucket, prefix, err := parseS3URI(uri)
			if err != nil {
				return err
			}

			output, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:  aws.String(bucket),
				Prefix:  aws.String(prefix),
				MaxKeys: aws.Int32(1),
			})
			if err != nil {
				return fmt.Errorf("failed to list objects under %s: %s", uri, err)
			}
			if len(output.Contents) == 0 {
				return fmt.Errorf("no objects found under %s", uri)
			}
			logger.Infof("Found objects under %s", uri)
			return nil
		})
	}
	return group.Wait()
}
