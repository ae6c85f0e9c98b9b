package source

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultS3Region = "us-east-1"

// S3Config holds the settings of the S3 client.
//
// Environment variables:
//
//	ANTRAGSBUCH_S3_REGION=<region> (default us-east-1)
//	ANTRAGSBUCH_S3_ENDPOINT=<url> (optional, for MinIO and other S3 compatible stores)
//	ANTRAGSBUCH_S3_PATH_STYLE=true|false (default false)
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// S3ConfigFromEnv reads S3Config from the process environment.
func S3ConfigFromEnv() S3Config {
	return S3Config{
		Region:    os.Getenv("ANTRAGSBUCH_S3_REGION"),
		Endpoint:  os.Getenv("ANTRAGSBUCH_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("ANTRAGSBUCH_S3_PATH_STYLE"), "true"),
	}
}

// NewS3Client creates an S3 client using the default credential chain.
func NewS3Client(ctx context.Context, cfg S3Config, loadOpts ...func(*config.LoadOptions) error) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultS3Region
	}
	loadOpts = append([]func(*config.LoadOptions) error{config.WithRegion(region)}, loadOpts...)

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}
