package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/owasprisk/pkg/service/archive"
	"github.com/secmon-lab/owasprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Archive holds CLI flags for keeping generated reports in Cloud Storage
type Archive struct {
	bucket string
	prefix string
}

func (x *Archive) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "report-bucket",
			Category:    "Report archive",
			Usage:       "Cloud Storage bucket receiving a copy of every generated report",
			Sources:     cli.EnvVars("OWASPRISK_REPORT_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "report-prefix",
			Category:    "Report archive",
			Usage:       "Object name prefix of archived reports",
			Value:       "reports",
			Sources:     cli.EnvVars("OWASPRISK_REPORT_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// IsEnabled reports whether a bucket is configured
func (x *Archive) IsEnabled() bool {
	return x.bucket != ""
}

// Configure creates the archive client. It returns nil when archiving is
// disabled.
func (x *Archive) Configure(ctx context.Context) (*archive.GCS, error) {
	if !x.IsEnabled() {
		return nil, nil
	}

	gcs, err := archive.NewGCS(ctx, x.bucket, archive.WithPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to configure report archive")
	}

	logging.Default().Info("Report archive enabled", "bucket", x.bucket, "prefix", x.prefix)
	return gcs, nil
}
