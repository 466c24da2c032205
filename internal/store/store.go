package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"health-insurance-web/internal/models"
)

// ErrNotFound means no profile document exists for the uid in that collection.
var ErrNotFound = errors.New("profile not found")

// ErrAlreadyExists means another request created collection/uid first.
var ErrAlreadyExists = errors.New("profile already exists")

// ProfileStore keeps role profiles in Firestore, one collection per role,
// documents keyed by the identity provider uid.
type ProfileStore struct {
	client *firestore.Client
}

func NewProfileStore(client *firestore.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

// Fetch reads collection/uid and decodes the fields the login gate needs.
func (s *ProfileStore) Fetch(ctx context.Context, collection, uid string) (*models.RoleRecord, error) {
	snap, err := s.client.Collection(collection).Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, uid, err)
	}

	var rec models.RoleRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, uid, err)
	}
	return &rec, nil
}

// Create writes the whole document at collection/uid and fails with
// ErrAlreadyExists if it is already there. Zero date_reg fields are stamped
// with the server time.
func (s *ProfileStore) Create(ctx context.Context, collection, uid string, doc interface{}) error {
	_, err := s.client.Collection(collection).Doc(uid).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, uid, err)
	}
	return nil
}

// ListPending returns provider profiles in collection still waiting for approval.
func (s *ProfileStore) ListPending(ctx context.Context, collection string) ([]models.ProviderProfile, error) {
	snaps, err := s.client.Collection(collection).
		Where("acc_approved", "==", false).
		OrderBy("date_reg", firestore.Desc).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("list pending %s: %w", collection, err)
	}

	profiles := make([]models.ProviderProfile, 0, len(snaps))
	for _, snap := range snaps {
		var p models.ProviderProfile
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, snap.Ref.ID, err)
		}
		p.UID = snap.Ref.ID
		profiles = append(profiles, p)
	}
	return profiles, nil
}
