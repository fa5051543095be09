package validation

import (
	"strings"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
	"github.com/shinonomekazan/akashic-game-drive/internal/identity"
)

// Route names a (method, path) pair that declares its own rule set.
type Route string

const (
	RouteRegisterUser   Route = "POST /users"
	RouteGetMe          Route = "GET /users/me"
	RouteUpdateUser     Route = "PUT /users/{id}"
	RouteCreateContent  Route = "POST /contents"
	RouteListMyContents Route = "GET /contents/me"
	RouteGetContent     Route = "GET /contents/{id}"
	RouteUpdateContent  Route = "PUT /contents/{id}"
	RouteIssueUploadURL Route = "POST /contents/upload-url"
)

func bearerToken() *Rule {
	return Header("Authorization").
		IsString().
		NotEmpty().
		Custom(identity.IsBearer, "Only Bearer tokens are supported")
}

// Rules returns the ordered rule list declared for route.
func Rules(route Route) []*Rule {
	switch route {
	case RouteRegisterUser:
		return []*Rule{
			bearerToken(),
			Body("name").IsString().NotEmpty(),
			Body("photoURL").Optional().IsString(),
		}
	case RouteGetMe, RouteListMyContents:
		return []*Rule{bearerToken()}
	case RouteUpdateUser:
		return []*Rule{
			bearerToken(),
			Param("id").IsString().NotEmpty(),
			Body("name").IsString().NotEmpty(),
		}
	case RouteCreateContent:
		return []*Rule{
			bearerToken(),
			Body("title").IsString().NotEmpty(),
			Body("description").Optional().IsString(),
			Body("zipUrl").IsString().NotEmpty(),
			Body("thumbnailUrl").IsString().NotEmpty(),
		}
	case RouteGetContent:
		return []*Rule{
			bearerToken(),
			Param("id").IsString().NotEmpty(),
		}
	case RouteUpdateContent:
		return []*Rule{
			bearerToken(),
			Param("id").IsString().NotEmpty(),
			Body("title").IsString().NotEmpty(),
			Body("description").Optional().IsString(),
			Body("zipUrl").Optional().IsString().NotEmpty(),
			Body("thumbnailUrl").Optional().IsString().NotEmpty(),
		}
	case RouteIssueUploadURL:
		return []*Rule{
			bearerToken(),
			Body("kind").IsString().IsIn("zip", "thumbnail"),
			Body("mimeType").IsString().NotEmpty(),
			Body("fileName").Optional().IsString().NotEmpty(),
			Body("contentId").Optional().IsString().NotEmpty(),
		}
	}
	return nil
}

// Parse validates req against the rules of route and, on success, binds the
// sanitized parameters. All failures are reported together in one BadRequest.
func Parse[P any](route Route, req *Request, bind func(*Request) P) (P, error) {
	var zero P
	if errs := Validate(Rules(route), req); len(errs) > 0 {
		return zero, apperror.BadRequest("Input validation failed").
			WithData(map[string]any{"errors": errs})
	}
	return bind(req), nil
}

// AuthParams is embedded by every authenticated route.
type AuthParams struct {
	Authorization string
}

// RegisterUserParams is the sanitized input of POST /users.
type RegisterUserParams struct {
	AuthParams
	Name     string
	PhotoURL *string
}

// UpdateUserParams is the sanitized input of PUT /users/{id}.
type UpdateUserParams struct {
	AuthParams
	ID   string
	Name string
}

// CreateContentParams is the sanitized input of POST /contents.
type CreateContentParams struct {
	AuthParams
	Title        string
	Description  *string
	ZipURL       string
	ThumbnailURL string
}

// ContentIDParams is the sanitized input of GET /contents/{id}.
type ContentIDParams struct {
	AuthParams
	ID string
}

// UpdateContentParams is the sanitized input of PUT /contents/{id}. Nil
// pointers mean "leave unchanged".
type UpdateContentParams struct {
	AuthParams
	ID           string
	Title        string
	Description  *string
	ZipURL       *string
	ThumbnailURL *string
}

// UploadURLParams is the sanitized input of POST /contents/upload-url.
type UploadURLParams struct {
	AuthParams
	Kind      string
	MimeType  string
	FileName  *string
	ContentID *string
}

func bindAuth(req *Request) AuthParams {
	return AuthParams{Authorization: req.header("Authorization")}
}

// BindAuth binds routes whose only input is the credential.
func BindAuth(req *Request) AuthParams { return bindAuth(req) }

// BindRegisterUser binds POST /users.
func BindRegisterUser(req *Request) RegisterUserParams {
	return RegisterUserParams{
		AuthParams: bindAuth(req),
		Name:       strings.TrimSpace(req.bodyString("name")),
		PhotoURL:   req.bodyOptional("photoURL"),
	}
}

// BindUpdateUser binds PUT /users/{id}.
func BindUpdateUser(req *Request) UpdateUserParams {
	return UpdateUserParams{
		AuthParams: bindAuth(req),
		ID:         req.param("id"),
		Name:       strings.TrimSpace(req.bodyString("name")),
	}
}

// BindCreateContent binds POST /contents.
func BindCreateContent(req *Request) CreateContentParams {
	return CreateContentParams{
		AuthParams:   bindAuth(req),
		Title:        strings.TrimSpace(req.bodyString("title")),
		Description:  req.bodyOptional("description"),
		ZipURL:       req.bodyString("zipUrl"),
		ThumbnailURL: req.bodyString("thumbnailUrl"),
	}
}

// BindContentID binds GET /contents/{id}.
func BindContentID(req *Request) ContentIDParams {
	return ContentIDParams{
		AuthParams: bindAuth(req),
		ID:         req.param("id"),
	}
}

// BindUpdateContent binds PUT /contents/{id}.
func BindUpdateContent(req *Request) UpdateContentParams {
	return UpdateContentParams{
		AuthParams:   bindAuth(req),
		ID:           req.param("id"),
		Title:        strings.TrimSpace(req.bodyString("title")),
		Description:  req.bodyOptional("description"),
		ZipURL:       req.bodyOptional("zipUrl"),
		ThumbnailURL: req.bodyOptional("thumbnailUrl"),
	}
}

// BindUploadURL binds POST /contents/upload-url.
func BindUploadURL(req *Request) UploadURLParams {
	return UploadURLParams{
		AuthParams: bindAuth(req),
		Kind:       req.bodyString("kind"),
		MimeType:   req.bodyString("mimeType"),
		FileName:   req.bodyOptional("fileName"),
		ContentID:  req.bodyOptional("contentId"),
	}
}
