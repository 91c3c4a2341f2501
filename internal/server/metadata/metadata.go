// Package metadata publishes ERC-721 style token metadata documents to
// S3-compatible object storage. The public URL of the stored document is
// used as the token URI when minting.
package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Attribute is one trait of a token.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"`
}

// Document is the JSON body a token URI resolves to.
type Document struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// Publisher stores a document and returns its URI.
type Publisher interface {
	Publish(ctx context.Context, kind string, doc *Document) (string, error)
}

// Settings is the subset of server config the S3 store needs.
type Settings struct {
	User     string
	Password string
	Bucket   string
	Region   string
	Endpoint string
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}
)

type S3Store struct {
	settings Settings
	client   *s3.Client
}

// NewS3Store builds an S3 client against the configured endpoint using
// path-style addressing, which MinIO requires.
func NewS3Store(ctx context.Context, s Settings) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.User, s.Password, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{settings: s, client: client}, nil
}

// StorageKey returns a fresh object key under kind, bucketed by day.
func StorageKey(kind string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%02d/%s.json", kind, now.Year(), now.Month(), now.Day(), uuid.New())
}

func (s *S3Store) Publish(ctx context.Context, kind string, doc *Document) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	key := StorageKey(kind, time.Now().UTC())
	err = putObject(s.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.settings.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("upload metadata: %w", err)
	}

	return s.URL(key), nil
}

// URL is the path-style public address of key.
func (s *S3Store) URL(key string) string {
	return strings.TrimRight(s.settings.Endpoint, "/") + "/" + s.settings.Bucket + "/" + key
}
