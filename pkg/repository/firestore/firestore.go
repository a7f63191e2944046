package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/healthnav/healthnav/pkg/domain/interfaces"
	"github.com/healthnav/healthnav/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultAppID is the application namespace all user data is stored under
const DefaultAppID = "health-navigator-app-v1"

// Document layout: artifacts/{appID}/users/{identity}/...
const (
	ProfileCollection   = "userProfile"
	ProfileDocument     = "current"
	HealthLogCollection = "healthLogs"
)

type Firestore struct {
	client    *firestore.Client
	profile   *profileRepository
	healthLog *healthLogRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithAppID sets the application namespace (artifacts/{appID}/...)
func WithAppID(appID string) Option {
	return func(f *Firestore) {
		f.profile.paths.appID = appID
		f.healthLog.paths.appID = appID
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		profile:   newProfileRepository(client),
		healthLog: newHealthLogRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Profile() interfaces.ProfileRepository {
	return f.profile
}

func (f *Firestore) HealthLog() interfaces.HealthLogRepository {
	return f.healthLog
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// paths builds document references under artifacts/{appID}/users/{identity}
type paths struct {
	client *firestore.Client
	appID  string
}

func newPaths(client *firestore.Client) paths {
	return paths{client: client, appID: DefaultAppID}
}

func (p paths) user(identity model.Identity) *firestore.DocumentRef {
	return p.client.Collection("artifacts").Doc(p.appID).Collection("users").Doc(identity.String())
}

func (p paths) profile(identity model.Identity) *firestore.DocumentRef {
	return p.user(identity).Collection(ProfileCollection).Doc(ProfileDocument)
}

func (p paths) healthLogs(identity model.Identity) *firestore.CollectionRef {
	return p.user(identity).Collection(HealthLogCollection)
}

// watchError maps the end of a snapshot listener to model.ErrWatchStopped.
// Other errors are returned wrapped.
func watchError(ctx context.Context, err error, msg string) error {
	if err == iterator.Done || status.Code(err) == codes.Canceled || ctx.Err() != nil {
		return goerr.Wrap(model.ErrWatchStopped, msg, goerr.V("cause", err.Error()))
	}
	return goerr.Wrap(err, msg)
}
