package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/linchh/campus-carpool/internal/config"
	"github.com/linchh/campus-carpool/internal/model"
	"github.com/linchh/campus-carpool/internal/service"
)

// capturingCarpoolStore records the filter the listing handler produces.
type capturingCarpoolStore struct {
	filter *model.CarpoolFilter
}

func (s *capturingCarpoolStore) GetByID(context.Context, uuid.UUID) (*model.Carpool, error) {
	return nil, nil
}

func (s *capturingCarpoolStore) List(_ context.Context, filter model.CarpoolFilter) ([]model.Carpool, error) {
	s.filter = &filter
	return []model.Carpool{}, nil
}

func (s *capturingCarpoolStore) ListDefault(context.Context) ([]model.Carpool, error) {
	return []model.Carpool{}, nil
}

func (s *capturingCarpoolStore) CurrentForStudent(context.Context, uuid.UUID) (*model.Carpool, error) {
	return nil, nil
}

func (s *capturingCarpoolStore) CurrentForDriver(context.Context, uuid.UUID) (*model.Carpool, error) {
	return nil, nil
}

func (s *capturingCarpoolStore) Create(_ context.Context, cp model.Carpool, _ uuid.UUID) (*model.Carpool, error) {
	return &cp, nil
}

func (s *capturingCarpoolStore) Update(context.Context, uuid.UUID, func(cp *model.Carpool) (model.CarpoolChange, error)) (*model.Carpool, error) {
	return nil, nil
}

func (s *capturingCarpoolStore) HistoryForStudent(context.Context, uuid.UUID) ([]model.Carpool, error) {
	return nil, nil
}

func (s *capturingCarpoolStore) HistoryForDriver(context.Context, uuid.UUID) ([]model.Carpool, error) {
	return nil, nil
}

func listingRouter(store service.CarpoolStore) *gin.Engine {
	cfg := &config.Config{Carpool: config.CarpoolConfig{WindowDays: 30, MaxRoster: 9}}
	carpools := service.NewCarpoolService(store, nil, nil, nil, cfg)
	handler := NewHandler(nil, carpools, nil, nil, zerolog.Nop())
	passthrough := func(c *gin.Context) { c.Next() }
	return NewRouter(handler, passthrough, passthrough, "test")
}

func TestListCarpoolsVacancyDefault(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantVacancy bool
	}{
		{"absent has_vacancy filters to open seats", "/carpools?has_driver=true", true},
		{"explicit opt-out includes full carpools", "/carpools?has_driver=true&has_vacancy=false", false},
		{"explicit opt-in", "/carpools?has_driver=true&has_vacancy=true", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &capturingCarpoolStore{}
			router := listingRouter(store)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
			}
			if store.filter == nil {
				t.Fatal("filtered listing was not queried")
			}
			if store.filter.RequireVacancy != tt.wantVacancy {
				t.Errorf("RequireVacancy = %v, want %v", store.filter.RequireVacancy, tt.wantVacancy)
			}
		})
	}
}
