package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/aussiebroadwan/invites/internal/invites/domain"
	"github.com/aussiebroadwan/invites/internal/invites/service"
	"github.com/aussiebroadwan/invites/internal/invites/store"
	"github.com/aussiebroadwan/invites/pkg/httpx"
	"github.com/aussiebroadwan/invites/pkg/jwtx"
	"github.com/aussiebroadwan/invites/pkg/slogx"

	_ "github.com/aussiebroadwan/invites/api/invites" // Swagger docs
)

// Scopes checked on the access tokens issued by the auth service.
const (
	ScopeInvitesWrite  = "invites:write"
	ScopeInvitesRead   = "invites:read"
	ScopeInvitesRedeem = "invites:redeem"
	ScopeAdminWrite    = "admin:write"
)

// RateLimits groups the per-route request limits.
type RateLimits struct {
	// Lookup guards the public validate endpoints against enumeration
	Lookup httpx.RateLimitConfig `koanf:"lookup"`
	Write  httpx.RateLimitConfig `koanf:"write"`
	Read   httpx.RateLimitConfig `koanf:"read"`
}

func DefaultRateLimits() RateLimits {
	return RateLimits{
		Lookup: httpx.StrictLimit,
		Write:  httpx.ModerateLimit,
		Read:   httpx.LenientLimit,
	}
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store         store.Store
	InviteService *service.InviteService
	Limits        RateLimits
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
		Limits:       DefaultRateLimits(),
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerIssue()
	r.registerLookup()
	r.registerRedeem()
	r.registerIssuerViews()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Invites Service API
//	@version		0.1.0
//	@description	Ledger of invite codes and email invites. Issuers mint invites against a quota,
//	@description	signup pages look them up and the signup flow redeems each one exactly once.
//	@description
//	@description				Issuer and admin endpoints take access tokens minted by the BarTab auth service.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/invites
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8081
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig, scopes ...string) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier), // verify JWT (iss/aud/exp)
		httpx.RequireAnyScope(scopes...),  // enforce scopes
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerIssue() {
	// Issuer-level throttling and the quota live in the service; this is the request limit
	r.Mux.Handle("POST /v1/invites/codes",
		r.secured(&IssueCodeHandler{InviteService: r.InviteService}, r.Limits.Write, ScopeInvitesWrite))
	r.Mux.Handle("POST /v1/invites/emails",
		r.secured(&IssueEmailHandler{InviteService: r.InviteService}, r.Limits.Write, ScopeInvitesWrite))
}

func (r *Router) registerLookup() {
	// Public lookups - strict limit by IP (token enumeration)
	r.Mux.Handle("GET /v1/invites/codes/{token}",
		httpx.Chain(&ValidateHandler{InviteService: r.InviteService, Kind: domain.KindCode},
			httpx.RateLimitByIP(r.Limits.Lookup),
		),
	)
	r.Mux.Handle("GET /v1/invites/emails/{token}",
		httpx.Chain(&ValidateHandler{InviteService: r.InviteService, Kind: domain.KindEmail},
			httpx.RateLimitByIP(r.Limits.Lookup),
		),
	)
}

func (r *Router) registerRedeem() {
	r.Mux.Handle("POST /v1/invites/codes/redeem",
		r.secured(&RedeemHandler{InviteService: r.InviteService, Kind: domain.KindCode},
			r.Limits.Write, ScopeInvitesRedeem))
	r.Mux.Handle("POST /v1/invites/emails/redeem",
		r.secured(&RedeemHandler{InviteService: r.InviteService, Kind: domain.KindEmail},
			r.Limits.Write, ScopeInvitesRedeem))
}

func (r *Router) registerIssuerViews() {
	r.Mux.Handle("GET /v1/invites",
		r.secured(&ListHandler{InviteService: r.InviteService}, r.Limits.Read, ScopeInvitesRead))
	r.Mux.Handle("GET /v1/invites/quota",
		r.secured(&QuotaHandler{InviteService: r.InviteService}, r.Limits.Read, ScopeInvitesRead))
}

func (r *Router) registerAdmin() {
	r.Mux.Handle("POST /v1/invites/cleanup",
		r.secured(&CleanupHandler{InviteService: r.InviteService}, r.Limits.Write, ScopeAdminWrite))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
