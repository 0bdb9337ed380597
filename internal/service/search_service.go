package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

// ErrSearchSuperseded означает, что запрос был вытеснен более новым и его
// результат не нужен.
var ErrSearchSuperseded = apperror.New(apperror.ErrCodeConflict, "поисковый запрос вытеснен более новым")

// SearchService выполняет запросы к поисковым провайдерам. Одновременно
// живёт не больше одного запроса: новый отменяет предыдущий, а опоздавший
// результат вытесненного запроса отбрасывается.
type SearchService struct {
	providers  map[string]string
	httpClient *http.Client

	mu     sync.Mutex
	seq    int64
	cancel context.CancelFunc
}

// NewSearchService создаёт сервис поиска с картой провайдеров
// (имя -> базовый URL).
func NewSearchService(providers map[string]string) *SearchService {
	return &SearchService{
		providers: providers,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// BuildURL собирает URL запроса к провайдеру.
func (s *SearchService) BuildURL(query models.SearchQuery) (string, error) {
	base, ok := s.providers[query.Provider]
	if !ok {
		return "", apperror.New(apperror.ErrCodeBadRequest, "неизвестный поисковый провайдер")
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("search: некорректный базовый URL провайдера: %w", err)
	}

	values := parsed.Query()
	values.Set("q", query.Term)
	if query.Page > 0 {
		values.Set("p", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		values.Set("ps", strconv.Itoa(query.PageSize))
	}
	for key, value := range query.Filters {
		values.Set(key, value)
	}
	parsed.RawQuery = values.Encode()
	return parsed.String(), nil
}

// Search выполняет запрос к провайдеру. Запуск нового запроса отменяет
// предыдущий; вытесненный запрос завершается ErrSearchSuperseded.
func (s *SearchService) Search(ctx context.Context, query models.SearchQuery) (*models.SearchResult, error) {
	if query.Term == "" {
		return nil, apperror.MissingArgument("term")
	}

	target, err := s.BuildURL(query)
	if err != nil {
		return nil, err
	}

	searchCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(searchCtx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if s.superseded(seq) {
			return nil, ErrSearchSuperseded
		}
		return nil, fmt.Errorf("search: запрос к провайдеру не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("search: провайдер вернул код %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("search: разбор ответа провайдера: %w", err)
	}

	// Исход фиксируется только для самого свежего запроса.
	if s.superseded(seq) {
		return nil, ErrSearchSuperseded
	}

	result := &models.SearchResult{
		Query:   query,
		Results: payload,
	}
	if total, ok := payload["total"].(float64); ok {
		result.Total = int(total)
	}
	return result, nil
}

// Providers возвращает имена настроенных провайдеров.
func (s *SearchService) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for name := range s.providers {
		names = append(names, name)
	}
	return names
}

func (s *SearchService) superseded(seq int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq != s.seq
}
