package export

import (
	"context"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/vango-lite/internal/errors"
)

// PutObjectAPI is the part of *s3.Client the exporter uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Exporter uploads snapshots to an S3 bucket under
// <prefix><demo>/<id>.html.
type S3Exporter struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// NewS3Exporter creates an S3 exporter.
//
// Parameters:
//   - client: *s3.Client or a test double
//   - bucket: S3 bucket name
//   - prefix: Key prefix (e.g., "snapshots/")
func NewS3Exporter(client PutObjectAPI, bucket, prefix string) *S3Exporter {
	return &S3Exporter{client: client, bucket: bucket, prefix: prefix}
}

// Export implements Exporter. It returns an s3:// URI.
func (e *S3Exporter) Export(ctx context.Context, snap *Snapshot) (string, error) {
	prepare(snap)
	key := e.prefix + path.Join(snap.Demo, snap.ID+".html")

	_, err := e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(snap.HTML),
		ContentType: aws.String("text/html; charset=utf-8"),
		Metadata: map[string]string{
			"demo":       snap.Demo,
			"passes":     strconv.FormatUint(snap.Passes, 10),
			"created-at": snap.CreatedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", errors.New("E100").WithDetailf("upload s3://%s/%s", e.bucket, key).Wrap(err)
	}
	return "s3://" + e.bucket + "/" + key, nil
}

// NewS3Client creates an S3 client for region with credentials read from
// the standard AWS environment variables.
func NewS3Client(region string) *s3.Client {
	return s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(EnvCredentials{}),
	})
}

// EnvCredentials reads AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and the
// optional AWS_SESSION_TOKEN.
type EnvCredentials struct{}

// Retrieve implements aws.CredentialsProvider.
func (EnvCredentials) Retrieve(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, errors.New("E100").
			WithDetail("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set for S3 export")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "vango-lite-env",
	}, nil
}
