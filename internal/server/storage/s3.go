package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/photovault/internal/common"
)

// s3API is the subset of *s3.Client used by the adapter. Both the real
// client and test fakes satisfy this interface.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Remote implements Remote on top of an S3-compatible endpoint
// (AWS S3, MinIO, any CDN with an S3 gateway).
type S3Remote struct {
	client s3API
	bucket string
	// host is the endpoint without scheme, used to derive object URLs.
	host string
}

// S3Config carries the settings needed to construct the client once at
// process start. No ambient global client state is kept.
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// NewS3Remote builds the S3 client from explicit configuration.
func NewS3Remote(ctx context.Context, c S3Config) (*S3Remote, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey, c.SecretKey, "",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.BaseEndpoint)
		// MinIO and most S3 gateways require path-style addressing.
		o.UsePathStyle = true
	})

	return newS3Remote(client, c.Bucket, c.BaseEndpoint), nil
}

func newS3Remote(client s3API, bucket, endpoint string) *S3Remote {
	host := strings.TrimPrefix(endpoint, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimSuffix(host, "/")
	return &S3Remote{client: client, bucket: bucket, host: host}
}

func (r *S3Remote) object(key string, size int64) *Object {
	return &Object{
		Key:       key,
		URL:       fmt.Sprintf("http://%s/%s/%s", r.host, r.bucket, key),
		SecureURL: fmt.Sprintf("https://%s/%s/%s", r.host, r.bucket, key),
		Folder:    FolderOf(key),
		SizeBytes: size,
	}
}

func (r *S3Remote) Upload(ctx context.Context, key, contentType string, body io.Reader) (*Object, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUploadFailed, err)
	}
	return r.object(key, 0), nil
}

// Delete removes the object under key. S3 DeleteObject succeeds for keys
// that do not exist, which gives the idempotency the callers rely on.
func (r *S3Remote) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Rename is server-side copy followed by delete of the source. A failed
// copy leaves the source untouched; a failed cleanup delete is reported
// as a rename failure so the caller keeps its old location.
func (r *S3Remote) Rename(ctx context.Context, oldKey, newKey string) (*Object, error) {
	_, err := r.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(r.bucket),
		Key:        aws.String(newKey),
		CopySource: aws.String(url.PathEscape(r.bucket + "/" + oldKey)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: copy %s -> %s: %w", common.ErrorRenameFailed, oldKey, newKey, err)
	}

	if err := r.Delete(ctx, oldKey); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorRenameFailed, err)
	}

	return r.object(newKey, 0), nil
}

func (r *S3Remote) List(ctx context.Context, prefix string) ([]Object, error) {
	var result []Object
	var token *string

	for {
		in := &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.bucket),
			ContinuationToken: token,
		}
		if prefix != "" {
			in.Prefix = aws.String(prefix)
		}

		out, err := r.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}

		for _, c := range out.Contents {
			obj := r.object(aws.ToString(c.Key), aws.ToInt64(c.Size))
			if c.LastModified != nil {
				obj.LastModified = *c.LastModified
			}
			result = append(result, *obj)
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	return result, nil
}

func (r *S3Remote) ListFolders(ctx context.Context) ([]string, error) {
	var folders []string
	var token *string

	for {
		out, err := r.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(r.bucket),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list folders: %w", err)
		}

		for _, p := range out.CommonPrefixes {
			folders = append(folders, strings.TrimSuffix(aws.ToString(p.Prefix), "/"))
		}

		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	return folders, nil
}
