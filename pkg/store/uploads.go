package store

import (
	"context"

	"github.com/google/uuid"
)

// ============================================
// UPLOAD RECORD OPERATIONS
// ============================================

func (s *GORMStore) CreateUploadRecord(ctx context.Context, record *UploadRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return "", err
	}
	return record.ID, nil
}

func (s *GORMStore) ListUploadRecords(ctx context.Context, userID string) ([]*UploadRecord, error) {
	var records []*UploadRecord
	q := s.db.WithContext(ctx).Order("created_at desc")
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GORMStore) GetUploadRecord(ctx context.Context, id string) (*UploadRecord, error) {
	var record UploadRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, convertNotFoundError(err, ErrUploadRecordNotFound)
	}
	return &record, nil
}
