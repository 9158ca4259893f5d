package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	sc "github.com/dmitrijs2005/newsroom/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// AvatarUpload is a presigned PUT for a new avatar image. Once the object is
// uploaded, AvatarURL can be stored as the account's avatar_url.
type AvatarUpload struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	AvatarURL string `json:"avatar_url"`
}

// AvatarService hands out presigned upload URLs on the S3-compatible store.
type AvatarService struct {
	config *sc.Config
}

func NewAvatarService(config *sc.Config) *AvatarService {
	return &AvatarService{config: config}
}

// AvatarKey returns a fresh object key under the user's prefix.
func AvatarKey(username string) string {
	return fmt.Sprintf("avatars/%s/%v", username, uuid.New())
}

func (s *AvatarService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a presigned PUT for a new avatar of username.
func (s *AvatarService) PresignUpload(ctx context.Context, username string) (*AvatarUpload, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := AvatarKey(username)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &AvatarUpload{
		Key:       key,
		UploadURL: req.URL,
		AvatarURL: s.objectURL(key),
	}, nil
}

// objectURL is the path-style public URL of key.
func (s *AvatarService) objectURL(key string) string {
	return strings.TrimSuffix(s.config.S3BaseEndpoint, "/") + "/" + s.config.S3Bucket + "/" + key
}
