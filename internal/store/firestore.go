package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/ostrata/mcp-request-tracker/internal/parse"
)

// firestoreCollection is the collection the original tracker deployment
// writes to; field names below match its documents.
const firestoreCollection = "requests"

type firestoreDoc struct {
	RequestNumber    string              `firestore:"requestNumber"`
	RequestedFor     string              `firestore:"requestedFor"`
	OpenedAt         string              `firestore:"openedAt"`
	ClosedAt         string              `firestore:"closedAt"`
	UpdatedToOpen    string              `firestore:"updatedToOpen"`
	ShortDescription string              `firestore:"shortDescription"`
	Description      string              `firestore:"description"`
	WorkNotes        string              `firestore:"workNotes"`
	State            string              `firestore:"state"`
	Approvals        []firestoreApproval `firestore:"approvals"`
	UserID           string              `firestore:"userId"`
	FileName         string              `firestore:"fileName"`
	FileURL          string              `firestore:"fileUrl"`
	UploadedAt       time.Time           `firestore:"uploadedAt"`
	CheckedInAt      *time.Time          `firestore:"checkedInAt"`
	CheckedInBy      string              `firestore:"checkedInBy"`
}

type firestoreApproval struct {
	State           string `firestore:"state"`
	Approver        string `firestore:"approver"`
	Item            string `firestore:"item"`
	Created         string `firestore:"created"`
	CreatedOriginal string `firestore:"createdOriginal"`
}

// FirestoreStore persists requests in a Firestore collection.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a store backed by the given project's Firestore
// database.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

// Create inserts a record and returns the generated document id.
func (s *FirestoreStore) Create(ctx context.Context, record *Record) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record cannot be nil")
	}

	ref, _, err := s.client.Collection(firestoreCollection).Add(ctx, toDoc(record))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	return ref.ID, nil
}

// Get returns one stored request.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Record, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	record := fromDoc(id, doc)
	return &record, nil
}

// List returns stored requests matching the filter.
func (s *FirestoreStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := s.client.Collection(firestoreCollection).Query
	if filter.UserID != "" {
		query = query.Where("userId", "==", filter.UserID)
	}
	if filter.State != "" {
		query = query.Where("state", "==", filter.State)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var records []Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list requests: %w", err)
		}

		var doc firestoreDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode request %s: %w", snap.Ref.ID, err)
		}
		records = append(records, fromDoc(snap.Ref.ID, &doc))
	}
	return records, nil
}

// Update applies the non-empty fields of updates to a stored request.
func (s *FirestoreStore) Update(ctx context.Context, id string, updates Updates) error {
	var fields []firestore.Update
	if updates.State != "" {
		fields = append(fields, firestore.Update{Path: "state", Value: updates.State})
	}
	if updates.WorkNotes != "" {
		fields = append(fields, firestore.Update{Path: "workNotes", Value: updates.WorkNotes})
	}
	if len(fields) == 0 {
		return fmt.Errorf("no updates supplied")
	}

	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(firestoreCollection).Doc(id).Update(ctx, fields); err != nil {
		return fmt.Errorf("failed to update request: %w", err)
	}
	return nil
}

// Delete removes a stored request.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if _, err := s.client.Collection(firestoreCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	return nil
}

// CheckIn marks a request's visitor as arrived. A request can only be checked
// in once.
func (s *FirestoreStore) CheckIn(ctx context.Context, id, guard string) error {
	if guard == "" {
		return fmt.Errorf("guard cannot be empty")
	}

	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if doc.CheckedInAt != nil {
		return fmt.Errorf("request already checked in by %s", doc.CheckedInBy)
	}

	now := time.Now().UTC()
	_, err = s.client.Collection(firestoreCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "checkedInAt", Value: &now},
		{Path: "checkedInBy", Value: guard},
	})
	if err != nil {
		return fmt.Errorf("failed to check in request: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

func (s *FirestoreStore) get(ctx context.Context, id string) (*firestoreDoc, error) {
	snap, err := s.client.Collection(firestoreCollection).Doc(id).Get(ctx)
	if err != nil {
		if snap != nil && !snap.Exists() {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	var doc firestoreDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode request: %w", err)
	}
	return &doc, nil
}

func toDoc(record *Record) *firestoreDoc {
	doc := &firestoreDoc{
		RequestNumber:    record.RequestNumber,
		RequestedFor:     record.RequestedFor,
		OpenedAt:         record.OpenedAt,
		ClosedAt:         record.ClosedAt,
		UpdatedToOpen:    record.UpdatedToOpen,
		ShortDescription: record.ShortDescription,
		Description:      record.Description,
		WorkNotes:        record.WorkNotes,
		State:            record.State,
		Approvals:        []firestoreApproval{},
		UserID:           record.UserID,
		FileName:         record.FileName,
		FileURL:          record.FileURL,
		UploadedAt:       record.UploadedAt,
		CheckedInAt:      record.CheckedInAt,
		CheckedInBy:      record.CheckedInBy,
	}
	for _, approval := range record.Approvals {
		doc.Approvals = append(doc.Approvals, firestoreApproval{
			State:           approval.State,
			Approver:        approval.Approver,
			Item:            approval.Item,
			Created:         approval.Created,
			CreatedOriginal: approval.CreatedOriginal,
		})
	}
	return doc
}

func fromDoc(id string, doc *firestoreDoc) Record {
	record := Record{
		ID: id,
		RequestRecord: parse.RequestRecord{
			RequestNumber:    doc.RequestNumber,
			RequestedFor:     doc.RequestedFor,
			OpenedAt:         doc.OpenedAt,
			ClosedAt:         doc.ClosedAt,
			UpdatedToOpen:    doc.UpdatedToOpen,
			ShortDescription: doc.ShortDescription,
			Description:      doc.Description,
			WorkNotes:        doc.WorkNotes,
			State:            doc.State,
			Approvals:        []parse.ApprovalEntry{},
		},
		UserID:      doc.UserID,
		FileName:    doc.FileName,
		FileURL:     doc.FileURL,
		UploadedAt:  doc.UploadedAt,
		CheckedInAt: doc.CheckedInAt,
		CheckedInBy: doc.CheckedInBy,
	}
	for _, approval := range doc.Approvals {
		record.Approvals = append(record.Approvals, parse.ApprovalEntry{
			State:           approval.State,
			Approver:        approval.Approver,
			Item:            approval.Item,
			Created:         approval.Created,
			CreatedOriginal: approval.CreatedOriginal,
		})
	}
	return record
}
