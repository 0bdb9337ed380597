// Package storage — файловый кэш аватаров участников сделок.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

// Предел размера одного аватара.
const maxAvatarBytes = 2 * 1024 * 1024

// AvatarCache скачивает аватары по URL и хранит их на диске, чтобы
// интерфейс не тянул картинки из сети при каждом открытии сделки.
type AvatarCache struct {
	rootPath   string
	httpClient *http.Client
}

// NewAvatarCache создаёт кэш аватаров.
func NewAvatarCache(rootPath string) (*AvatarCache, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}
	return &AvatarCache{
		rootPath: rootPath,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Get возвращает путь к закэшированному аватару участника, скачивая его
// при первом обращении. Тип изображения определяется по содержимому,
// а не по расширению в URL.
func (c *AvatarCache) Get(ctx context.Context, peerID, avatarURL string) (string, error) {
	if peerID == "" || avatarURL == "" {
		return "", fmt.Errorf("storage: не задан участник или URL аватара")
	}

	if existing := c.find(peerID); existing != "" {
		return existing, nil
	}

	data, err := c.download(ctx, avatarURL)
	if err != nil {
		return "", err
	}

	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.MIME.Type != "image" {
		return "", fmt.Errorf("storage: содержимое по URL аватара не является изображением")
	}

	fileName := sanitizePeerID(peerID) + "." + kind.Extension
	targetPath := filepath.Join(c.rootPath, fileName)
	tempPath := targetPath + ".tmp"

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: не удалось записать аватар: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("storage: не удалось переименовать файл аватара: %w", err)
	}
	return targetPath, nil
}

// Invalidate удаляет закэшированный аватар участника.
func (c *AvatarCache) Invalidate(peerID string) error {
	existing := c.find(peerID)
	if existing == "" {
		return nil
	}
	if err := os.Remove(existing); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить аватар: %w", err)
	}
	return nil
}

func (c *AvatarCache) find(peerID string) string {
	matches, err := filepath.Glob(filepath.Join(c.rootPath, sanitizePeerID(peerID)+".*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	for _, match := range matches {
		if !strings.HasSuffix(match, ".tmp") {
			return match
		}
	}
	return ""
}

func (c *AvatarCache) download(ctx context.Context, avatarURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось скачать аватар: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("storage: код ответа %d при скачивании аватара", resp.StatusCode)
	}

	var buf bytes.Buffer
	limited := io.LimitedReader{R: resp.Body, N: maxAvatarBytes + 1}
	if _, err := io.Copy(&buf, &limited); err != nil {
		return nil, fmt.Errorf("storage: ошибка чтения аватара: %w", err)
	}
	if buf.Len() > maxAvatarBytes {
		return nil, fmt.Errorf("storage: размер аватара превышает лимит %d байт", maxAvatarBytes)
	}
	return buf.Bytes(), nil
}

func sanitizePeerID(peerID string) string {
	peerID = strings.ReplaceAll(peerID, "/", "_")
	peerID = strings.ReplaceAll(peerID, "\\", "_")
	peerID = strings.ReplaceAll(peerID, "..", "")
	return peerID
}
