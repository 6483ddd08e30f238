package server

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	v1 "github.com/gosuda/sentinel/internal/api/v1"
	"github.com/gosuda/sentinel/internal/api/ws"
	"github.com/gosuda/sentinel/internal/audit"
	"github.com/gosuda/sentinel/internal/store/postgres"
)

func registerAPIRoutes(api huma.API, store *postgres.Store, svc *audit.Service) {
	v1.RegisterPolicyRoutes(api, svc)
	v1.RegisterAuditRoutes(api, svc, store)
	v1.RegisterDashboardRoutes(api, store)
}

func registerWSRoutes(r chi.Router, hub *ws.Hub) {
	r.Get("/audits/{runID}", hub.ServeAudit)
}
