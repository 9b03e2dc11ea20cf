package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/interfaces"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/model"
	"github.com/marcelogarciass/dashboard-projeto/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	issuesCollection     = "issues"
	snapshotsCollection  = "snapshots"
	selectionsCollection = "selections"

	// Document IDs
	currentSnapshotDocID = "current"

	// Field names
	fieldSnapshotID = "snapshot_id"
)

// issueDocument is the stored form of one issue tagged with its snapshot generation
type issueDocument struct {
	SnapshotID string       `firestore:"snapshot_id"`
	Issue      *model.Issue `firestore:"issue"`
}

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
	prefix string
}

// FirestoreOption configures the Firestore repository
type FirestoreOption func(*Firestore)

// WithCollectionPrefix prepends prefix to every collection name
func WithCollectionPrefix(prefix string) FirestoreOption {
	return func(f *Firestore) {
		f.prefix = prefix
	}
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...FirestoreOption) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	repo := &Firestore{client: client}
	for _, opt := range opts {
		opt(repo)
	}

	// Fail fast on invalid project or missing permissions
	_, err = client.Collection(repo.collection(snapshotsCollection)).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
		"prefix", repo.prefix,
	)

	return repo, nil
}

func (f *Firestore) collection(name string) string {
	return f.prefix + name
}

// PutSnapshot writes all issues of a new snapshot generation, then points
// the current snapshot document at it and removes issues of older generations
func (f *Firestore) PutSnapshot(ctx context.Context, info *model.SnapshotInfo, issues []*model.Issue) error {
	if info == nil {
		return goerr.New("snapshot info is nil")
	}
	if info.ID == "" {
		return goerr.New("snapshot ID is empty")
	}

	issuesRef := f.client.Collection(f.collection(issuesCollection))
	bw := f.client.BulkWriter(ctx)

	var jobs []*firestore.BulkWriterJob
	for _, issue := range issues {
		if issue == nil || issue.Key == "" {
			continue
		}
		doc := &issueDocument{SnapshotID: info.ID.String(), Issue: issue}
		job, err := bw.Set(issuesRef.Doc(issueDocID(info.ID, issue.Key)), doc)
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue issue write", goerr.V("key", issue.Key))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write issue", goerr.V("snapshot_id", info.ID))
		}
	}

	stored := *info
	stored.IssueCount = len(jobs)
	_, err := f.client.Collection(f.collection(snapshotsCollection)).Doc(currentSnapshotDocID).Set(ctx, &stored)
	if err != nil {
		return goerr.Wrap(err, "failed to save snapshot info", goerr.V("snapshot_id", info.ID))
	}

	if err := f.deleteStaleIssues(ctx, info.ID); err != nil {
		ctxlog.From(ctx).Warn("failed to delete stale issues", "error", err, "snapshot_id", info.ID)
	}

	return nil
}

func (f *Firestore) deleteStaleIssues(ctx context.Context, current types.SnapshotID) error {
	iter := f.client.Collection(f.collection(issuesCollection)).
		Where(fieldSnapshotID, "!=", current.String()).
		Documents(ctx)
	defer iter.Stop()

	bw := f.client.BulkWriter(ctx)
	defer bw.End()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate stale issues")
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			return goerr.Wrap(err, "failed to enqueue stale issue deletion", goerr.V("doc_id", doc.Ref.ID))
		}
	}

	return nil
}

// GetSnapshotInfo returns metadata of the current snapshot
func (f *Firestore) GetSnapshotInfo(ctx context.Context) (*model.SnapshotInfo, error) {
	doc, err := f.client.Collection(f.collection(snapshotsCollection)).Doc(currentSnapshotDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot stored")
		}
		return nil, goerr.Wrap(err, "failed to get snapshot info")
	}

	var info model.SnapshotInfo
	if err := doc.DataTo(&info); err != nil {
		return nil, goerr.Wrap(err, "failed to decode snapshot info")
	}

	return &info, nil
}

// ListIssues returns the issues of snapshot id. The pointer check and the
// issue query run in one read-only transaction, so a concurrent PutSnapshot
// cannot mix generations.
func (f *Firestore) ListIssues(ctx context.Context, id types.SnapshotID) ([]*model.Issue, error) {
	var issues []*model.Issue

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		issues = nil

		doc, err := tx.Get(f.client.Collection(f.collection(snapshotsCollection)).Doc(currentSnapshotDocID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrSnapshotNotFound, "no snapshot stored")
			}
			return goerr.Wrap(err, "failed to get snapshot info")
		}

		var current model.SnapshotInfo
		if err := doc.DataTo(&current); err != nil {
			return goerr.Wrap(err, "failed to decode snapshot info")
		}
		if current.ID != id {
			return goerr.Wrap(model.ErrSnapshotNotFound, "snapshot was replaced",
				goerr.V("snapshot_id", id),
				goerr.V("current_id", current.ID))
		}

		iter := tx.Documents(f.client.Collection(f.collection(issuesCollection)).
			Where(fieldSnapshotID, "==", id.String()))
		defer iter.Stop()

		issues = make([]*model.Issue, 0, current.IssueCount)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return goerr.Wrap(err, "failed to iterate issues", goerr.V("snapshot_id", id))
			}

			var stored issueDocument
			if err := doc.DataTo(&stored); err != nil {
				return goerr.Wrap(err, "failed to decode issue", goerr.V("doc_id", doc.Ref.ID))
			}
			if stored.Issue != nil {
				issues = append(issues, stored.Issue)
			}
		}
		return nil
	}, firestore.ReadOnly)
	if err != nil {
		return nil, err
	}

	return issues, nil
}

// issueDocID keys issue documents by generation so a new snapshot never
// overwrites the one being read
func issueDocID(id types.SnapshotID, key types.IssueKey) string {
	return id.String() + "_" + key.String()
}

// SaveSelection saves the filter selection of a session
func (f *Firestore) SaveSelection(ctx context.Context, selection *model.SessionSelection) error {
	if selection == nil {
		return goerr.New("selection is nil")
	}
	if selection.SessionID == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(f.collection(selectionsCollection)).Doc(selection.SessionID.String()).Set(ctx, selection)
	if err != nil {
		return goerr.Wrap(err, "failed to save selection", goerr.V("session_id", selection.SessionID))
	}

	return nil
}

// GetSelection retrieves the filter selection of a session
func (f *Firestore) GetSelection(ctx context.Context, id types.SessionID) (*model.SessionSelection, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	doc, err := f.client.Collection(f.collection(selectionsCollection)).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSelectionNotFound, "selection not found", goerr.V("session_id", id))
		}
		return nil, goerr.Wrap(err, "failed to get selection", goerr.V("session_id", id))
	}

	var selection model.SessionSelection
	if err := doc.DataTo(&selection); err != nil {
		return nil, goerr.Wrap(err, "failed to decode selection")
	}

	return &selection, nil
}

// DeleteSelection deletes the filter selection of a session
func (f *Firestore) DeleteSelection(ctx context.Context, id types.SessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	_, err := f.client.Collection(f.collection(selectionsCollection)).Doc(id.String()).Delete(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to delete selection", goerr.V("session_id", id))
	}

	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

var _ interfaces.Repository = (*Firestore)(nil) // Compile-time interface check
