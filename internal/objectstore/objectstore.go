// Package objectstore mirrors local state files to an S3-compatible
// bucket, the same best-effort pattern the original guardian process
// used against Cloudflare R2: every push and pull runs in the caller's
// goroutine under a short timeout, and a failure is logged, never
// returned, so it cannot fail the caller's own state machine.
package objectstore

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	"github.com/whiteref/soccer-guardian-v10/internal/config"
	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
)

const mirrorTimeout = 8 * time.Second

// Mirror pushes and pulls small JSON blobs to/from an S3-compatible
// bucket. A nil *Mirror (returned when credentials are absent) is
// always safe to call; every method is then a silent no-op.
type Mirror struct {
	client *minio.Client
	bucket string
}

// New constructs a Mirror from configuration. It returns (nil, nil)
// when S3 credentials are not configured — mirroring is optional.
func New(cfg *config.Config) (*Mirror, error) {
	if !cfg.S3Configured() {
		return nil, nil
	}
	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &Mirror{client: client, bucket: cfg.S3Bucket}, nil
}

// Push uploads data under key, best-effort. Failures are logged, never
// returned — a lost mirror push must not interrupt the caller.
func (m *Mirror) Push(key string, data []byte) {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		metrics.ObjectStorePushTotal.WithLabelValues("failure").Inc()
		log.Warn().Err(err).Str("key", key).Msg("objectstore: mirror push failed")
		return
	}
	metrics.ObjectStorePushTotal.WithLabelValues("success").Inc()
}

// Pull downloads the object at key, returning ok=false on any failure
// including "not found" — callers fall back to local cache/defaults.
func (m *Mirror) Pull(key string) (data []byte, ok bool) {
	if m == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("objectstore: mirror pull failed")
		return nil, false
	}
	defer obj.Close()

	data, err = io.ReadAll(obj)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("objectstore: mirror pull read failed")
		return nil, false
	}
	return data, true
}
