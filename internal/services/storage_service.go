package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"quoting-system/internal/apperror"
	"quoting-system/internal/config"
	"quoting-system/internal/logger"
)

// StorageService загружает документы котировок в бакет (Supabase Storage API).
type StorageService struct {
	log    *logger.Logger
	client *http.Client
	cfg    *config.StorageConfig
}

// NewStorageService создает клиент хранилища документов.
func NewStorageService(log *logger.Logger, cfg *config.StorageConfig) *StorageService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StorageService{
		log:    log,
		client: &http.Client{Timeout: timeout},
		cfg:    cfg,
	}
}

// Enabled сообщает, настроено ли внешнее хранилище.
func (s *StorageService) Enabled() bool {
	return s.cfg != nil && s.cfg.BaseURL != ""
}

// PublicURL строит публичную ссылку на объект детерминированно,
// не спрашивая хранилище.
func (s *StorageService) PublicURL(filename string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, filename)
}

// Upload загружает документ под именем filename и возвращает публичную ссылку.
// Если объект уже существует, это считается успехом.
func (s *StorageService) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.cfg.BaseURL, s.cfg.Bucket, filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessKey)
	req.Header.Set("Content-Type", "text/html; charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", apperror.Unavailable("document storage is unavailable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return s.PublicURL(filename), nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	// Повторная загрузка того же документа не считается ошибкой
	if resp.StatusCode == http.StatusConflict || strings.Contains(string(body), "already exists") {
		s.log.WithField("filename", filename).Debug("Document already uploaded, reusing public URL")
		return s.PublicURL(filename), nil
	}

	return "", apperror.Unavailable(
		fmt.Sprintf("document upload failed with status %d", resp.StatusCode),
		fmt.Errorf("storage status %d: %s", resp.StatusCode, string(body)))
}
