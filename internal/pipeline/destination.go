package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"go-triage-pipeline/internal/config"
	"go-triage-pipeline/internal/model"
	"go-triage-pipeline/pkg/utils"
)

// BaseDirEnv names the environment variable holding the local output root.
const BaseDirEnv = "BASE_TRIAGE_DIR"

// ErrNoBaseDir is returned when a local destination has no root configured.
var ErrNoBaseDir = errors.New("no local output directory configured")

// Destination persists one encoded export under {base}/{dir}/{file}.
type Destination interface {
	Kind() model.DestinationKind
	// Base returns the root the range directories live under.
	Base() (string, error)
	// Write stores payload and returns the full target path or URI.
	Write(ctx context.Context, dir, file string, payload []byte) (string, error)
}

// LocalDestination writes under a filesystem root. An empty Root falls back to
// BASE_TRIAGE_DIR, read on every call.
type LocalDestination struct {
	Root string
}

func (d LocalDestination) Kind() model.DestinationKind { return model.DestinationLocal }

func (d LocalDestination) Base() (string, error) {
	root := d.Root
	if root == "" {
		root = os.Getenv(BaseDirEnv)
	}
	if root == "" {
		return "", fmt.Errorf("%w: set %s", ErrNoBaseDir, BaseDirEnv)
	}
	return root, nil
}

// Write creates the range directory if needed and writes the file.
func (d LocalDestination) Write(ctx context.Context, dir, file string, payload []byte) (string, error) {
	base, err := d.Base()
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := utils.NewOutputManager(base).GetOutputFilePath(dir, file)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(target, payload, 0644); err != nil {
		return target, fmt.Errorf("failed to write file: %w", err)
	}
	return target, nil
}

// ObjectPutter is the slice of the S3 client an object store destination uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectStoreDestination writes objects to Bucket under Prefix. Object stores
// have no directories, so nothing is created ahead of the put.
type ObjectStoreDestination struct {
	Bucket string
	Prefix string
	Client ObjectPutter
}

func (d ObjectStoreDestination) Kind() model.DestinationKind { return model.DestinationObjectStore }

func (d ObjectStoreDestination) Base() (string, error) {
	if d.Bucket == "" {
		return "", fmt.Errorf("object store bucket is not configured")
	}
	prefix := strings.Trim(d.Prefix, "/")
	if prefix == "" {
		return "s3://" + d.Bucket, nil
	}
	return "s3://" + d.Bucket + "/" + prefix, nil
}

func (d ObjectStoreDestination) key(dir, file string) string {
	return path.Join(strings.Trim(d.Prefix, "/"), dir, file)
}

// Write puts the payload as a single object
func (d ObjectStoreDestination) Write(ctx context.Context, dir, file string, payload []byte) (string, error) {
	if _, err := d.Base(); err != nil {
		return "", err
	}
	if d.Client == nil {
		return "", fmt.Errorf("object store client is not configured")
	}

	key := d.key(dir, file)
	uri := "s3://" + d.Bucket + "/" + key

	_, err := d.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String("text/csv"),
	})
	if err != nil {
		return uri, fmt.Errorf("failed to put object %s: %w", uri, err)
	}
	return uri, nil
}

// NewDestination selects the destination variant for kind. client is only
// consulted for the object store and may be nil otherwise.
func NewDestination(kind model.DestinationKind, cfg *config.Config, client ObjectPutter) (Destination, error) {
	switch kind {
	case "", model.DestinationLocal:
		return LocalDestination{Root: cfg.Output.BaseDir}, nil
	case model.DestinationObjectStore:
		if client == nil {
			return nil, fmt.Errorf("object store destination requires a client")
		}
		dest := ObjectStoreDestination{
			Bucket: cfg.ObjectStore.Bucket,
			Prefix: cfg.ObjectStore.Prefix,
			Client: client,
		}
		if _, err := dest.Base(); err != nil {
			return nil, err
		}
		return dest, nil
	default:
		return nil, fmt.Errorf("unknown destination: %q", kind)
	}
}

// NewS3Client builds an S3 client from the default AWS credential chain,
// honouring a custom endpoint for S3-compatible stores.
func NewS3Client(ctx context.Context, cfg config.ObjectStoreConfig) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	}), nil
}
