package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ostrata/mcp-request-tracker/internal/parse"
)

type requestRow struct {
	gorm.Model
	RequestNumber    string `gorm:"index"`
	RequestedFor     string
	OpenedAt         string
	ClosedAt         string
	UpdatedToOpen    string
	ShortDescription string `gorm:"type:text"`
	Description      string `gorm:"type:text"`
	WorkNotes        string `gorm:"type:text"`
	State            string `gorm:"index"`
	UserID           string `gorm:"index"`
	FileName         string
	FileURL          string
	UploadedAt       time.Time
	CheckedInAt      *time.Time
	CheckedInBy      string
	Approvals        []approvalRow `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

func (requestRow) TableName() string { return "requests" }

type approvalRow struct {
	ID              uint `gorm:"primarykey"`
	RequestID       uint `gorm:"index"`
	Position        int
	State           string
	Approver        string
	Item            string
	Created         string
	CreatedOriginal string
}

func (approvalRow) TableName() string { return "request_approvals" }

// SQLiteStore persists requests in an embedded SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the database under the given data
// directory and migrates the schema.
func NewSQLiteStore(dataDir string) (*SQLiteStore, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("cannot create data directory %s: %w", dataDir, err)
	}

	dbPath := filepath.Join(dataDir, "requests.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewSQLiteStoreWithDB(db)
}

// NewSQLiteStoreWithDB wraps a pre-configured gorm handle; used by tests with
// an in-memory database.
func NewSQLiteStoreWithDB(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&requestRow{}, &approvalRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Create inserts a record and returns the assigned id.
func (s *SQLiteStore) Create(ctx context.Context, record *Record) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record cannot be nil")
	}

	row := toRow(record)
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	return strconv.FormatUint(uint64(row.ID), 10), nil
}

// Get returns one stored request including its approvals.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	rowID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var row requestRow
	err = s.db.WithContext(ctx).Preload("Approvals", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&row, rowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %w", err)
	}

	record := fromRow(&row)
	return &record, nil
}

// List returns stored requests matching the filter, newest first.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Record, error) {
	query := s.db.WithContext(ctx).Model(&requestRow{}).Preload("Approvals")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	var rows []requestRow
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	records := make([]Record, 0, len(rows))
	for i := range rows {
		records = append(records, fromRow(&rows[i]))
	}
	return records, nil
}

// Update applies the non-empty fields of updates to a stored request.
func (s *SQLiteStore) Update(ctx context.Context, id string, updates Updates) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	values := map[string]any{}
	if updates.State != "" {
		values["state"] = updates.State
	}
	if updates.WorkNotes != "" {
		values["work_notes"] = updates.WorkNotes
	}
	if len(values) == 0 {
		return fmt.Errorf("no updates supplied")
	}

	result := s.db.WithContext(ctx).Model(&requestRow{}).Where("id = ?", rowID).Updates(values)
	if result.Error != nil {
		return fmt.Errorf("failed to update request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a stored request and its approvals.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&requestRow{}, rowID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete request: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("request_id = ?", rowID).Delete(&approvalRow{}).Error; err != nil {
			return fmt.Errorf("failed to delete approvals: %w", err)
		}
		return nil
	})
}

// CheckIn marks a request's visitor as arrived. A request can only be checked
// in once.
func (s *SQLiteStore) CheckIn(ctx context.Context, id, guard string) error {
	rowID, err := parseID(id)
	if err != nil {
		return err
	}
	if guard == "" {
		return fmt.Errorf("guard cannot be empty")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row requestRow
		err := tx.First(&row, rowID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load request: %w", err)
		}
		if row.CheckedInAt != nil {
			return fmt.Errorf("request already checked in by %s", row.CheckedInBy)
		}

		now := time.Now().UTC()
		return tx.Model(&row).Updates(map[string]any{
			"checked_in_at": &now,
			"checked_in_by": guard,
		}).Error
	})
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func parseID(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid request id %q", id)
	}
	return uint(n), nil
}

func toRow(record *Record) *requestRow {
	row := &requestRow{
		RequestNumber:    record.RequestNumber,
		RequestedFor:     record.RequestedFor,
		OpenedAt:         record.OpenedAt,
		ClosedAt:         record.ClosedAt,
		UpdatedToOpen:    record.UpdatedToOpen,
		ShortDescription: record.ShortDescription,
		Description:      record.Description,
		WorkNotes:        record.WorkNotes,
		State:            record.State,
		UserID:           record.UserID,
		FileName:         record.FileName,
		FileURL:          record.FileURL,
		UploadedAt:       record.UploadedAt,
		CheckedInAt:      record.CheckedInAt,
		CheckedInBy:      record.CheckedInBy,
	}
	for i, approval := range record.Approvals {
		row.Approvals = append(row.Approvals, approvalRow{
			Position:        i,
			State:           approval.State,
			Approver:        approval.Approver,
			Item:            approval.Item,
			Created:         approval.Created,
			CreatedOriginal: approval.CreatedOriginal,
		})
	}
	return row
}

func fromRow(row *requestRow) Record {
	record := Record{
		ID: strconv.FormatUint(uint64(row.ID), 10),
		RequestRecord: parse.RequestRecord{
			RequestNumber:    row.RequestNumber,
			RequestedFor:     row.RequestedFor,
			OpenedAt:         row.OpenedAt,
			ClosedAt:         row.ClosedAt,
			UpdatedToOpen:    row.UpdatedToOpen,
			ShortDescription: row.ShortDescription,
			Description:      row.Description,
			WorkNotes:        row.WorkNotes,
			State:            row.State,
			Approvals:        []parse.ApprovalEntry{},
		},
		UserID:      row.UserID,
		FileName:    row.FileName,
		FileURL:     row.FileURL,
		UploadedAt:  row.UploadedAt,
		CheckedInAt: row.CheckedInAt,
		CheckedInBy: row.CheckedInBy,
	}
	for _, approval := range row.Approvals {
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
