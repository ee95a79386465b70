package interfaces

import "context"

// ReportArchive keeps a copy of every generated report
type ReportArchive interface {
	// Put stores data under name and returns the location it was written to
	Put(ctx context.Context, name string, data []byte) (string, error)
}
