package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/domain"
	"github.com/solarepc/epc-api/internal/logger"
	"github.com/solarepc/epc-api/internal/mapper"
	"github.com/solarepc/epc-api/internal/repository"
	"github.com/solarepc/epc-api/internal/storage"
	"go.uber.org/zap"
)

// DocumentService stores attachments in blob storage and their metadata in the database
type DocumentService struct {
	documentRepo *repository.DocumentRepository
	storage      storage.Storage
	logger       *zap.Logger
}

func NewDocumentService(documentRepo *repository.DocumentRepository, store storage.Storage, logger *zap.Logger) *DocumentService {
	return &DocumentService{documentRepo: documentRepo, storage: store, logger: logger}
}

// Upload stores the file and records it against its entity. The blob is removed
// again when the metadata insert fails.
func (s *DocumentService) Upload(ctx context.Context, req *domain.CreateDocumentRequest, filename, contentType string, data io.Reader) (*domain.DocumentDTO, error) {
	if err := validEntityType(req.EntityType); err != nil {
		return nil, err
	}

	key, size, err := s.storage.Upload(ctx, req.EntityType, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.Document{
		Name:       req.Name,
		Type:       req.Type,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		FilePath:   key,
		FileSize:   &size,
		UploadedBy: auth.UserIDPtr(ctx),
	}
	if contentType != "" {
		doc.MimeType = &contentType
	}

	if err := s.documentRepo.Create(ctx, doc); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.Warn("failed to remove orphaned document blob", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	logger.WithEntity(s.logger, doc.EntityType, doc.EntityID).Info("document uploaded",
		zap.Uint("document_id", doc.ID),
		zap.Int64("size", size),
	)

	dto := mapper.ToDocumentDTO(doc)
	return &dto, nil
}

func (s *DocumentService) ListByEntity(ctx context.Context, entityType string, entityID uint) ([]domain.DocumentDTO, error) {
	if err := validEntityType(entityType); err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return mapper.ToDocumentDTOs(docs), nil
}

// Download opens the stored file. The caller closes the reader.
func (s *DocumentService) Download(ctx context.Context, id uint) (*domain.DocumentDTO, io.ReadCloser, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, lookupError(err, "document", id)
	}

	rc, err := s.storage.Download(ctx, doc.FilePath)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, nil, fmt.Errorf("document %d content: %w", id, ErrNotFound)
		}
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}

	dto := mapper.ToDocumentDTO(doc)
	return &dto, rc, nil
}
