package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/simplereimbursement/membership/internal/membership/service"
	"github.com/simplereimbursement/membership/internal/membership/store"
	"github.com/simplereimbursement/membership/pkg/httpx"
	"github.com/simplereimbursement/membership/pkg/jwtx"
	"github.com/simplereimbursement/membership/pkg/slogx"

	_ "github.com/simplereimbursement/membership/api/membership" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	OrganizationService *service.OrganizationService
	SessionService      *service.SessionService
	InviteService       *service.InviteService
	LicenseService      *service.LicenseService
	UserService         *service.UserService
	WebhookService      *service.WebhookService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerOrganizations()
	r.registerSessions()
	r.registerInvites()
	r.registerUsers()
	r.registerWebhooks()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SimpleReimbursement Membership API
//	@version		0.1.0
//	@description	Invitation and license accounting service for the SimpleReimbursement expense platform.
//	@description	Organizations purchase per-class seat licenses; admins invite members against the
//	@description	available seats and invitations convert into accounts when accepted.
//
//	@contact.name				SimpleReimbursement Team
//	@contact.url				https://github.com/simplereimbursement/membership
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerOrganizations() {
	// POST /v1/organizations - public signup, strict rate limit
	r.Mux.Handle("POST /v1/organizations",
		httpx.Chain(&OrganizationCreateHandler{OrganizationService: r.OrganizationService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /v1/organizations/licenses - seat ledger, admin only
	r.Mux.Handle("GET /v1/organizations/licenses",
		httpx.Chain(&LicenseGetHandler{LicenseService: r.LicenseService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PUT /v1/organizations/licenses - seat totals, admin only
	r.Mux.Handle("PUT /v1/organizations/licenses",
		httpx.Chain(&LicenseUpdateHandler{LicenseService: r.LicenseService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSessions() {
	// POST /v1/sessions - login, strict rate limit against credential stuffing
	r.Mux.Handle("POST /v1/sessions",
		httpx.Chain(&SessionHandler{SessionService: r.SessionService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerInvites() {
	// POST /v1/organizations/invites - batch issuance, admin only
	r.Mux.Handle("POST /v1/organizations/invites",
		httpx.Chain(&InviteIssueHandler{InviteService: r.InviteService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	// GET /v1/organizations/invites - list, admin only
	r.Mux.Handle("GET /v1/organizations/invites",
		httpx.Chain(&InviteListHandler{InviteService: r.InviteService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /v1/invites/{code}/validate - public accept-page lookup
	r.Mux.Handle("GET /v1/invites/{code}/validate",
		httpx.Chain(&InviteValidateHandler{InviteService: r.InviteService},
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /v1/invites/{code}/accept - public redemption, strict rate limit
	r.Mux.Handle("POST /v1/invites/{code}/accept",
		httpx.Chain(&InviteAcceptHandler{InviteService: r.InviteService},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// DELETE /v1/invites/{code} - revocation, admin only
	r.Mux.Handle("DELETE /v1/invites/{code}",
		httpx.Chain(&InviteRevokeHandler{InviteService: r.InviteService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	// GET /v1/organizations/users - member list, admin only
	r.Mux.Handle("GET /v1/organizations/users",
		httpx.Chain(&UserListHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// DELETE /v1/users/{id} - member removal, admin only
	r.Mux.Handle("DELETE /v1/users/{id}",
		httpx.Chain(&UserRemoveHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireAnyRole(RoleOrgAdmin),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerWebhooks() {
	// POST /v1/webhooks/billing - signature-verified provider callbacks.
	// No rate limit: the provider retries on 429 and signs every request.
	r.Mux.Handle("POST /v1/webhooks/billing",
		&BillingWebhookHandler{WebhookService: r.WebhookService},
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.startTime, r.buildVersion))
}
