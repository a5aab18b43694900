package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/adamn1225/adam-noahs-stuff/internal/data/catalog"
	"github.com/adamn1225/adam-noahs-stuff/internal/domain/project"
	"github.com/adamn1225/adam-noahs-stuff/internal/observability"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/apierr"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/ctxutil"
	"github.com/adamn1225/adam-noahs-stuff/internal/platform/logger"
)

type CatalogService interface {
	List(ctx context.Context, category string) ([]project.Record, error)
	Get(ctx context.Context, id string) (project.Record, error)
	Create(ctx context.Context, rec project.Record) (project.Record, error)
	Update(ctx context.Context, rec project.Record) (project.Record, error)
	Delete(ctx context.Context, id string) error
}

type catalogService struct {
	log     *logger.Logger
	store   catalog.Store
	metrics *observability.Metrics
}

func NewCatalogService(log *logger.Logger, store catalog.Store, metrics *observability.Metrics) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{log: serviceLog, store: store, metrics: metrics}
}

func (s *catalogService) List(ctx context.Context, category string) ([]project.Record, error) {
	var want project.Category
	if strings.TrimSpace(category) != "" {
		c, err := project.ParseCategory(category)
		if err != nil {
			return nil, apierr.BadRequest(err.Error())
		}
		want = c
	}
	recs, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("Failed to load projects", "error", err, "request_id", ctxutil.RequestID(ctx))
		return nil, apierr.Internal("Failed to load projects", err)
	}
	if want == "" {
		return recs, nil
	}
	out := make([]project.Record, 0, len(recs))
	for _, r := range recs {
		if r.Category == want {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (project.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return project.Record{}, apierr.BadRequest("Project ID required")
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return project.Record{}, s.mapStoreErr(ctx, "get", err, "Failed to load project")
	}
	return rec, nil
}

func (s *catalogService) Create(ctx context.Context, rec project.Record) (project.Record, error) {
	if !ctxutil.IsAuthenticated(ctx) {
		return project.Record{}, apierr.Unauthorized()
	}
	ctx, span := observability.Tracer().Start(ctx, "catalog.create")
	defer span.End()

	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return project.Record{}, apierr.BadRequest(err.Error())
	}
	stored, err := s.store.Create(ctx, rec)
	if err != nil {
		s.metrics.IncCatalogWrite("create", "error")
		return project.Record{}, s.mapStoreErr(ctx, "create", err, "Failed to create project")
	}
	span.SetAttributes(attribute.String("project.id", stored.ID))
	s.metrics.IncCatalogWrite("create", "ok")
	s.log.Info("Project created", "project_id", stored.ID, "category", string(stored.Category))
	return stored, nil
}

func (s *catalogService) Update(ctx context.Context, rec project.Record) (project.Record, error) {
	if !ctxutil.IsAuthenticated(ctx) {
		return project.Record{}, apierr.Unauthorized()
	}
	ctx, span := observability.Tracer().Start(ctx, "catalog.update")
	defer span.End()

	rec.Normalize()
	if rec.ID == "" {
		return project.Record{}, apierr.BadRequest("Project ID required")
	}
	if err := rec.Validate(); err != nil {
		return project.Record{}, apierr.BadRequest(err.Error())
	}
	span.SetAttributes(attribute.String("project.id", rec.ID))
	stored, err := s.store.Update(ctx, rec)
	if err != nil {
		s.metrics.IncCatalogWrite("update", "error")
		return project.Record{}, s.mapStoreErr(ctx, "update", err, "Failed to update project")
	}
	s.metrics.IncCatalogWrite("update", "ok")
	s.log.Info("Project updated", "project_id", stored.ID)
	return stored, nil
}

func (s *catalogService) Delete(ctx context.Context, id string) error {
	if !ctxutil.IsAuthenticated(ctx) {
		return apierr.Unauthorized()
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apierr.BadRequest("Project ID required")
	}
	ctx, span := observability.Tracer().Start(ctx, "catalog.delete")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", id))

	if err := s.store.Delete(ctx, id); err != nil {
		s.metrics.IncCatalogWrite("delete", "error")
		return s.mapStoreErr(ctx, "delete", err, "Failed to delete project")
	}
	s.metrics.IncCatalogWrite("delete", "ok")
	s.log.Info("Project deleted", "project_id", id)
	return nil
}

func (s *catalogService) mapStoreErr(ctx context.Context, op string, err error, internalMsg string) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return apierr.NotFound("Project not found")
	case errors.Is(err, catalog.ErrConflict):
		return apierr.Conflict("A project with this ID already exists")
	case errors.Is(err, project.ErrInvalid):
		return apierr.BadRequest(err.Error())
	}
	s.log.Error("Catalog store failure", "op", op, "error", err, "request_id", ctxutil.RequestID(ctx))
	return apierr.Internal(internalMsg, err)
}
