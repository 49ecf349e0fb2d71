// Package directory resolves intranet ids to people profiles. The corporate
// directory is the system of record for names and photos; user documents
// only pin the intranet id.
package directory

import (
	"context"
)

// Profile is the directory record for one intranet id.
type Profile struct {
	Photo       string `json:"photo"`
	Name        string `json:"name"`
	JobName     string `json:"jobName"`
	JobLocation string `json:"jobLocation"`
}

type Client interface {
	QueryProfile(ctx context.Context, intranetID string) (*Profile, error)
}

// staticClient derives a deterministic profile from the intranet id. It
// stands in when no directory endpoint is configured.
type staticClient struct{}

func NewStaticClient() Client { return staticClient{} }

func (staticClient) QueryProfile(_ context.Context, intranetID string) (*Profile, error) {
	return &Profile{
		Photo:       intranetID + ".jpg",
		Name:        "name for " + intranetID,
		JobName:     "job name for " + intranetID,
		JobLocation: "job location for " + intranetID,
	}, nil
}
