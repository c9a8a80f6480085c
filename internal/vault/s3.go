package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"inv-go/internal/config"
	"inv-go/internal/inv"
)

// S3Vault stores backups as objects in a single bucket, under an optional
// key prefix. Works against AWS S3 and S3-compatible services such as MinIO.
type S3Vault struct {
	name     string
	bucket   string
	prefix   string
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Vault creates an S3 vault from cfg. Static credentials are used when
// both keys are set, otherwise the default AWS credential chain.
func NewS3Vault(ctx context.Context, cfg config.VaultConfig) (*S3Vault, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 vault requires s3_bucket to be set")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3PathStyle
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
	})
	return NewS3VaultWithClient(cfg.Name, cfg.S3Bucket, cfg.S3Prefix, client), nil
}

// NewS3VaultWithClient wraps an existing S3 client.
func NewS3VaultWithClient(name, bucket, prefix string, client *s3.Client) *S3Vault {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Vault{
		name:     name,
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: manager.NewUploader(client),
	}
}

func (v *S3Vault) key(name string) string {
	return v.prefix + name
}

// PutBackup uploads a backup under name, replacing any previous object.
func (v *S3Vault) PutBackup(name string, r io.Reader, size int64) error {
	if err := validateName(name); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	_, err = v.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(v.bucket),
		Key:         aws.String(v.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	return nil
}

// GetBackup downloads a backup by name and writes it to w.
func (v *S3Vault) GetBackup(name string, w io.Writer) error {
	if err := validateName(name); err != nil {
		return err
	}

	out, err := v.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.key(name)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return fmt.Errorf("backup not found: %s", name)
		}
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	return nil
}

// ListBackups returns the backup names under the vault prefix, sorted.
func (v *S3Vault) ListBackups() ([]string, error) {
	var names []string
	p := s3.NewListObjectsV2Paginator(v.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(v.bucket),
		Prefix: aws.String(v.prefix),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing backups: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), v.prefix)
			if name == "" || strings.Contains(name, "/") {
				continue
			}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// ValidateSetup verifies that the bucket exists and is reachable.
func (v *S3Vault) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{Bucket: aws.String(v.bucket)})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

// Compile-time check that S3Vault implements inv.Vault interface
var _ inv.Vault = (*S3Vault)(nil)
