package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/bazaar-gateway/internal/models"
	"github.com/ignatzorin/bazaar-gateway/internal/pkg/apperror"
)

func TestBuildURLSetsQueryParams(t *testing.T) {
	svc := NewSearchService(map[string]string{
		"default": "https://search.example/search/listings",
	})

	target, err := svc.BuildURL(models.SearchQuery{
		Provider: "default",
		Term:     "деревянный стол",
		Page:     2,
		PageSize: 25,
		Filters:  map[string]string{"nsfw": "false"},
	})

	assert.NoError(t, err)
	parsed, err := url.Parse(target)
	assert.NoError(t, err)
	values := parsed.Query()
	assert.Equal(t, "деревянный стол", values.Get("q"))
	assert.Equal(t, "2", values.Get("p"))
	assert.Equal(t, "25", values.Get("ps"))
	assert.Equal(t, "false", values.Get("nsfw"))
}

func TestBuildURLUnknownProvider(t *testing.T) {
	svc := NewSearchService(map[string]string{"default": "https://search.example"})

	_, err := svc.BuildURL(models.SearchQuery{Provider: "elsewhere", Term: "стол"})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeBadRequest, appErr.Code)
}

func TestSearchRequiresTerm(t *testing.T) {
	svc := NewSearchService(map[string]string{"default": "https://search.example"})

	_, err := svc.Search(context.Background(), models.SearchQuery{Provider: "default"})

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeMissingArgument, appErr.Code)
}

func TestSearchReturnsProviderPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "стол", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total": 3, "results": []}`))
	}))
	defer server.Close()

	svc := NewSearchService(map[string]string{"default": server.URL})

	result, err := svc.Search(context.Background(), models.SearchQuery{Provider: "default", Term: "стол"})

	assert.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, "стол", result.Query.Term)
}

func TestNewSearchSupersedesPrevious(t *testing.T) {
	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		if r.URL.Query().Get("q") == "медленный" {
			select {
			case <-release:
			case <-r.Context().Done():
				return
			}
		}
		_, _ = w.Write([]byte(`{"total": 1}`))
	}))
	defer server.Close()

	svc := NewSearchService(map[string]string{"default": server.URL})

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Search(context.Background(), models.SearchQuery{Provider: "default", Term: "медленный"})
		firstErr <- err
	}()
	<-entered

	result, err := svc.Search(context.Background(), models.SearchQuery{Provider: "default", Term: "быстрый"})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Total)

	close(release)
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrSearchSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("вытесненный запрос не завершился")
	}
}

func TestSearchProviderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewSearchService(map[string]string{"default": server.URL})

	_, err := svc.Search(context.Background(), models.SearchQuery{Provider: "default", Term: "стол"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSearchSuperseded)
}
