package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/cartkit/blobstore"
	minioblob "github.com/hupe1980/cartkit/blobstore/minio"
	s3blob "github.com/hupe1980/cartkit/blobstore/s3"
)

type storeURI struct {
	Scheme string // "file", "s3" or "minio"
	Host   string // minio only
	Bucket string
	Prefix string
	Path   string // file only
}

// parseStoreURI understands
//
//	/local/path, file:///local/path
//	s3://bucket/prefix
//	minio://host:port/bucket/prefix
func parseStoreURI(uri string) (storeURI, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return storeURI{Scheme: "file", Path: uri}, nil
	}

	switch scheme {
	case "file":
		return storeURI{Scheme: "file", Path: rest}, nil
	case "s3":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return storeURI{}, fmt.Errorf("model uri %q: missing bucket", uri)
		}
		return storeURI{Scheme: scheme, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	case "minio":
		host, path, _ := strings.Cut(rest, "/")
		bucket, prefix, _ := strings.Cut(path, "/")
		if host == "" || bucket == "" {
			return storeURI{}, fmt.Errorf("model uri %q: want minio://host/bucket[/prefix]", uri)
		}
		return storeURI{Scheme: scheme, Host: host, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
	default:
		return storeURI{}, fmt.Errorf("model uri %q: unsupported scheme %q", uri, scheme)
	}
}

func openStore(ctx context.Context, uri string) (blobstore.BlobStore, error) {
	u, err := parseStoreURI(uri)
	if err != nil {
		return nil, err
	}

	switch u.Scheme {
	case "s3":
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		return s3blob.NewStore(awss3.NewFromConfig(cfg), u.Bucket, u.Prefix), nil
	case "minio":
		client, err := minio.New(u.Host, &minio.Options{
			Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
			Secure: os.Getenv("MINIO_SECURE") == "true",
		})
		if err != nil {
			return nil, err
		}
		return minioblob.NewStore(client, u.Bucket, u.Prefix), nil
	default:
		return blobstore.NewLocalStore(u.Path), nil
	}
}
