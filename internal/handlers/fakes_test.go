package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mountain-recommendation-engine/internal/models"
	s3service "mountain-recommendation-engine/internal/services/s3"
	"mountain-recommendation-engine/internal/services/ses"
)

type fakeStore struct {
	mu        sync.Mutex
	created   []*models.SubmissionCreate
	pending   []*models.Submission
	notified  []string
	createErr error
	insertErr error
}

func (f *fakeStore) Create(_ context.Context, s *models.SubmissionCreate) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, s)
	return fmt.Sprintf("sub-%d", len(f.created)), nil
}

func (f *fakeStore) BulkInsert(_ context.Context, submissions []*models.SubmissionCreate) (*models.BulkInsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return nil, f.insertErr
	}
	result := &models.BulkInsertResult{}
	for _, s := range submissions {
		f.created = append(f.created, s)
		result.InsertedCount++
		result.IDs = append(result.IDs, fmt.Sprintf("sub-%d", len(f.created)))
	}
	return result, nil
}

func (f *fakeStore) ListPendingNotification(_ context.Context, batchID string) ([]*models.Submission, error) {
	var out []*models.Submission
	for _, s := range f.pending {
		if s.BatchID == batchID && s.NotifiedAt == nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkNotified(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.notified = append(f.notified, id)
	for _, s := range f.pending {
		if s.ID == id {
			now := time.Now()
			s.NotifiedAt = &now
		}
	}
	return nil
}

type fakeMailer struct {
	sent    []ses.RecommendationEmailParams
	batches [][]ses.RecommendationEmailParams
	failTo  string
}

func (f *fakeMailer) SendRecommendation(_ context.Context, params ses.RecommendationEmailParams) (*ses.SendEmailResult, error) {
	if params.Email == f.failTo {
		return nil, errors.New("address not verified")
	}
	f.sent = append(f.sent, params)
	return &ses.SendEmailResult{MessageID: "msg-" + params.SubmissionID, SentAt: time.Now()}, nil
}

func (f *fakeMailer) SendBatchRecommendations(ctx context.Context, batch []ses.RecommendationEmailParams) []ses.BatchSendResult {
	f.batches = append(f.batches, batch)

	results := make([]ses.BatchSendResult, len(batch))
	for i, params := range batch {
		results[i].SubmissionID = params.SubmissionID
		sent, err := f.SendRecommendation(ctx, params)
		if err != nil {
			results[i].Err = err
			continue
		}
		results[i].MessageID = sent.MessageID
	}
	return results
}

type fakeObjects struct {
	files       map[string][]byte
	archived    []string
	downloadErr error
}

func (f *fakeObjects) FileExists(_ context.Context, bucket, key string) (bool, error) {
	_, ok := f.files[bucket+"/"+key]
	return ok, nil
}

func (f *fakeObjects) DownloadFile(_ context.Context, bucket, key string) ([]byte, error) {
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.files[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return data, nil
}

func (f *fakeObjects) Archive(_ context.Context, bucket, key string) (string, error) {
	archived := s3service.ArchiveKey(key)
	f.archived = append(f.archived, archived)
	delete(f.files, bucket+"/"+key)
	return archived, nil
}

type fakePresigner struct {
	err error
}

func (f *fakePresigner) GeneratePresignedUploadURL(_ context.Context, key string, _ string, expiry time.Duration) (*s3service.PresignedURLResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &s3service.PresignedURLResult{
		URL:       "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=abc",
		Key:       key,
		ExpiresAt: time.Now().Add(expiry),
	}, nil
}

type fakePinger struct {
	err error
}

func (f fakePinger) HealthCheck(context.Context) error { return f.err }
