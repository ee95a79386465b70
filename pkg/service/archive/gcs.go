package archive

import (
	"context"
	"fmt"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/owasprisk/pkg/domain/types"
	"github.com/secmon-lab/owasprisk/pkg/service/report"
)

// GCS stores reports as objects of a Cloud Storage bucket
type GCS struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ReportArchive = &GCS{}

type Option func(*GCS)

// WithPrefix places every object below prefix
func WithPrefix(prefix string) Option {
	return func(g *GCS) {
		g.prefix = prefix
	}
}

func NewGCS(ctx context.Context, bucket string, opts ...Option) (*GCS, error) {
	if bucket == "" {
		return nil, goerr.New("bucket name is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	g := &GCS{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func (g *GCS) Put(ctx context.Context, name string, data []byte) (string, error) {
	object := path.Join(g.prefix, name)

	w := g.client.Bucket(g.bucket).Object(object).NewWriter(ctx)
	w.ContentType = report.ContentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "failed to write report object",
			goerr.V("bucket", g.bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize report object",
			goerr.V("bucket", g.bucket), goerr.V("object", object))
	}

	return fmt.Sprintf("gs://%s/%s", g.bucket, object), nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

// ObjectName returns the archive name of a report generated for a session
// at the given time
func ObjectName(sessionID types.SessionID, at time.Time) string {
	return path.Join(sessionID.String(), at.UTC().Format("20060102T150405.000Z")+"_"+report.FileName)
}
