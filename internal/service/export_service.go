package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"freightiq/internal/config"
	"freightiq/internal/domain"
	"freightiq/internal/export"
	"freightiq/internal/port"
)

// exportPageSize bounds suggestions fetched per page while building an export.
const exportPageSize = 200

// ExportResult describes a generated review-queue export.
type ExportResult struct {
	Key         string `json:"key"`
	DownloadURL string `json:"download_url"`
	Count       int    `json:"count"`
	ExpiresIn   int64  `json:"expires_in_seconds"`
}

// ExportService renders the pending review queue to object storage.
type ExportService interface {
	// ExportPending builds an XLSX workbook of pending suggestions ordered
	// by priority, uploads it, and returns a presigned download link.
	ExportPending(ctx context.Context) (*ExportResult, error)
}

type exportService struct {
	suggestionRepo port.SuggestionRepository
	storage        port.ObjectStorage
	cfg            config.S3Config
}

// NewExportService creates a new ExportService implementation.
func NewExportService(suggestionRepo port.SuggestionRepository, storage port.ObjectStorage, cfg config.S3Config) ExportService {
	return &exportService{suggestionRepo: suggestionRepo, storage: storage, cfg: cfg}
}

func (s *exportService) ExportPending(ctx context.Context) (*ExportResult, error) {
	var all []domain.RuleSuggestion
	for offset := 0; ; offset += exportPageSize {
		page, total, err := s.suggestionRepo.ListByStatus(ctx, domain.SuggestionPending, offset, exportPageSize)
		if err != nil {
			return nil, fmt.Errorf("export.ExportPending: %w", err)
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			break
		}
	}

	buf, err := export.ReviewQueueWorkbook(all)
	if err != nil {
		return nil, fmt.Errorf("export.ExportPending: %w: %v", domain.ErrExportFailed, err)
	}

	key := fmt.Sprintf("exports/review-queue-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        buf,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}); err != nil {
		return nil, fmt.Errorf("export.ExportPending: %w: %v", domain.ErrExportFailed, err)
	}

	expiry := time.Duration(s.cfg.PresignExpiry) * time.Second
	url, err := s.storage.PresignDownload(ctx, s.cfg.Bucket, key, expiry)
	if err != nil {
		return nil, fmt.Errorf("export.ExportPending: %w: %v", domain.ErrExportFailed, err)
	}

	log.Printf("exportService: exported %d pending suggestions to %s", len(all), key)
	return &ExportResult{
		Key:         key,
		DownloadURL: url,
		Count:       len(all),
		ExpiresIn:   s.cfg.PresignExpiry,
	}, nil
}
