package wanderpress

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/gommon/log"
)

// DeployConfig names the bucket a built site is uploaded to.
type DeployConfig struct {
	Bucket    string
	Region    string
	Prefix    string // key prefix inside the bucket
	Endpoint  string // S3-compatible endpoint, empty for AWS
	PathStyle bool
}

// ObjectPutter is the part of the S3 client Deploy needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg DeployConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}

// Deploy uploads every file under dir and returns how many were sent.
// HTML and XML are marked for revalidation; everything else under public/
// is cached for a day.
func Deploy(ctx context.Context, client ObjectPutter, cfg DeployConfig, dir string, logger *log.Logger) (int, error) {
	if cfg.Bucket == "" {
		return 0, fmt.Errorf("deploy: bucket is required")
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return 0, fmt.Errorf("deploy: %s is not a built site", dir)
	}

	n := 0
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		key := objectKey(cfg.Prefix, rel)

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(cfg.Bucket),
			Key:          aws.String(key),
			Body:         f,
			ContentType:  aws.String(contentType(rel)),
			CacheControl: aws.String(objectCacheControl(rel)),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
		if logger != nil {
			logger.Debugf("uploaded s3://%s/%s", cfg.Bucket, key)
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	if logger != nil {
		logger.Infof("deployed %d files to s3://%s/%s", n, cfg.Bucket, strings.Trim(cfg.Prefix, "/"))
	}
	return n, nil
}

func objectKey(prefix, rel string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return prefix + "/" + rel
}

func contentType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func objectCacheControl(name string) string {
	if strings.HasPrefix(name, "public/") {
		return "public, max-age=86400"
	}
	return "no-cache"
}
