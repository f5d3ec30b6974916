package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofrs/uuid/v5"

	"github.com/darshilbhuva09/quanta/internal/errs"
	"github.com/darshilbhuva09/quanta/internal/model"
)

// markerKey is written when a container is created so the prefix exists as a
// remote side effect even while empty.
const markerKey = ".keep"

// metaFilename is the object metadata key holding the display name.
const metaFilename = "filename"

// S3Config holds explicit client settings for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string // empty for AWS proper; set for MinIO-style deployments
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	LinkTTL   time.Duration // presigned link validity
}

// S3Store implements Store over a single bucket of an S3-compatible service.
// A container is a key prefix; object keys are containerID/objectID.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	linkTTL time.Duration
}

// NewS3 constructs the store with an explicitly configured client.
func NewS3(ctx context.Context, cfg S3Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	linkTTL := cfg.LinkTTL
	if linkTTL <= 0 {
		linkTTL = 7 * 24 * time.Hour
	}

	return &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		linkTTL: linkTTL,
	}, nil
}

// CreateContainer provisions a fresh per-user prefix and writes its marker object.
func (s *S3Store) CreateContainer(ctx context.Context, name string) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	containerID := fmt.Sprintf("%s-%s", sanitizeContainerName(name), id)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(containerID + "/" + markerKey),
		Body:   strings.NewReader(""),
	})
	if err != nil {
		return "", err
	}
	return containerID, nil
}

// Upload stores the blob and returns the object summary with presigned links.
func (s *S3Store) Upload(ctx context.Context, containerID string, r io.Reader, name, mimeType string, size int64) (*model.ObjectInfo, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	objectID := id.String()
	key := containerID + "/" + objectID

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(mimeType),
		Metadata:      map[string]string{metaFilename: name},
	})
	if err != nil {
		return nil, err
	}

	viewLink, downloadLink, err := s.links(ctx, key, name)
	if err != nil {
		return nil, err
	}

	return &model.ObjectInfo{
		ID:           objectID,
		Name:         name,
		MimeType:     mimeType,
		Size:         size,
		ViewLink:     viewLink,
		DownloadLink: downloadLink,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// List returns summaries of all objects under the container prefix.
func (s *S3Store) List(ctx context.Context, containerID string) ([]model.ObjectInfo, error) {
	prefix := containerID + "/"
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var out []model.ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			objectID := strings.TrimPrefix(key, prefix)
			if objectID == markerKey || objectID == "" {
				continue
			}
			info, err := s.Stat(ctx, containerID, objectID)
			if err != nil {
				return nil, err
			}
			out = append(out, *info)
		}
	}
	return out, nil
}

// Stat returns a single object's summary with fresh presigned links.
func (s *S3Store) Stat(ctx context.Context, containerID, objectID string) (*model.ObjectInfo, error) {
	key := containerID + "/" + objectID
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}

	name := head.Metadata[metaFilename]
	if name == "" {
		name = objectID
	}

	viewLink, downloadLink, err := s.links(ctx, key, name)
	if err != nil {
		return nil, err
	}

	info := &model.ObjectInfo{
		ID:           objectID,
		Name:         name,
		MimeType:     aws.ToString(head.ContentType),
		Size:         aws.ToInt64(head.ContentLength),
		ViewLink:     viewLink,
		DownloadLink: downloadLink,
	}
	if head.LastModified != nil {
		info.CreatedAt = head.LastModified.UTC()
	}
	return info, nil
}

// Delete removes the object. Deleting an already absent key is not an error.
func (s *S3Store) Delete(ctx context.Context, containerID, objectID string) error {
	key := containerID + "/" + objectID
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// links produces presigned GET URLs: inline for viewing, attachment for download.
func (s *S3Store) links(ctx context.Context, key, name string) (string, string, error) {
	view, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(`inline; filename="` + name + `"`),
	}, s3.WithPresignExpires(s.linkTTL))
	if err != nil {
		return "", "", err
	}

	download, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(s.bucket),
		Key:                        aws.String(key),
		ResponseContentDisposition: aws.String(`attachment; filename="` + name + `"`),
	}, s3.WithPresignExpires(s.linkTTL))
	if err != nil {
		return "", "", err
	}

	return view.URL, download.URL, nil
}

// sanitizeContainerName reduces a username to a safe key prefix fragment.
func sanitizeContainerName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "user"
	}
	return out
}
