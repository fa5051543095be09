package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shinonomekazan/akashic-game-drive/internal/api/handler"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/middleware"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/response"
	"github.com/shinonomekazan/akashic-game-drive/internal/api/validation"
	"github.com/shinonomekazan/akashic-game-drive/internal/content"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
	"github.com/shinonomekazan/akashic-game-drive/internal/upload"
	"github.com/shinonomekazan/akashic-game-drive/internal/user"
)

// RouterDeps holds all dependencies needed by the router. It is built once
// at startup and shared by every request.
type RouterDeps struct {
	Version        string
	Verifier       identity.Verifier
	Users          user.Repository
	Contents       content.Repository
	Quota          *content.QuotaGuard
	Uploads        *upload.Issuer
	PublicURLs     handler.PublicURLer
	StorePinger    handler.Pinger
	APIKey         string
	APIKeyHash     string
	AllowedOrigins []string
}

// Endpoints returns the route table: one entry per (method, path).
func Endpoints(deps RouterDeps) []handler.Endpoint {
	users := handler.NewUserHandler(deps.Verifier, deps.Users)
	contents := handler.NewContentHandler(deps.Verifier, deps.Contents, deps.Quota, deps.PublicURLs)
	uploads := handler.NewUploadHandler(deps.Verifier, deps.Uploads)

	return []handler.Endpoint{
		handler.Handle(validation.RouteRegisterUser, validation.BindRegisterUser, users.Register),
		handler.Handle(validation.RouteGetMe, validation.BindAuth, users.Me),
		handler.Handle(validation.RouteUpdateUser, validation.BindUpdateUser, users.Update),
		handler.Handle(validation.RouteCreateContent, validation.BindCreateContent, contents.Create),
		handler.Handle(validation.RouteListMyContents, validation.BindAuth, contents.ListMine),
		handler.Handle(validation.RouteIssueUploadURL, validation.BindUploadURL, uploads.IssueURL),
		handler.Handle(validation.RouteGetContent, validation.BindContentID, contents.Get),
		handler.Handle(validation.RouteUpdateContent, validation.BindUpdateContent, contents.Update),
	}
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORS(deps.AllowedOrigins))
	r.Use(middleware.APIKey(deps.APIKey, deps.APIKeyHash))

	system := handler.NewSystemHandler(deps.StorePinger, deps.Version)
	r.Get("/", system.Index)
	r.Get("/health", system.Health)

	for _, e := range Endpoints(deps) {
		r.Method(e.Method, e.Pattern, e.Handler)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	response.Err(w, http.StatusNotFound, "NOT_FOUND",
		fmt.Sprintf("API Not Found: %s", r.URL.Path), middleware.GetRequestID(r.Context()))
}
