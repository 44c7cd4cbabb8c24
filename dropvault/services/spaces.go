package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SpacesService stores item artwork in a DO Spaces bucket. The ledger only
// carries image URLs; uploads and deletes happen here.
type SpacesService struct {
	client   *s3.Client
	bucket   string
	region   string
	ItemRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, itemRoot string) (*SpacesService, error) {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load spaces config: %w", err)
	}

	return &SpacesService{
		client:   s3.NewFromConfig(cfg),
		bucket:   bucket,
		region:   region,
		ItemRoot: strings.Trim(itemRoot, "/"),
	}, nil
}

func (s *SpacesService) itemKey(caseID, itemID string) string {
	return fmt.Sprintf("%s/%s/%s.png", s.ItemRoot, caseID, itemID)
}

// ItemImageURL is the public URL an uploaded image is served from.
func (s *SpacesService) ItemImageURL(caseID, itemID string) string {
	return fmt.Sprintf("https://%s.%s.digitaloceanspaces.com/%s", s.bucket, s.region, s.itemKey(caseID, itemID))
}

// UploadItemImage stores artwork for one item and returns its public URL.
func (s *SpacesService) UploadItemImage(ctx context.Context, caseID, itemID string, data []byte) (string, error) {
	key := s.itemKey(caseID, itemID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
		ACL:         "public-read",
	})
	if err != nil {
		return "", fmt.Errorf("upload item image %s: %w", key, err)
	}
	return s.ItemImageURL(caseID, itemID), nil
}

// DeleteItemImage removes stored artwork. Missing objects are not an error.
func (s *SpacesService) DeleteItemImage(ctx context.Context, caseID, itemID string) error {
	key := s.itemKey(caseID, itemID)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	}); err != nil {
		return fmt.Errorf("delete item image %s: %w", key, err)
	}
	return nil
}
