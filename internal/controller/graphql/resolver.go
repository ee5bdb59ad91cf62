package graphql

import (
	"context"
	"errors"
	"strconv"

	"github.com/graphql-go/graphql"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
	"github.com/fithub/fithub-onboarding/internal/domain/service"
	"github.com/fithub/fithub-onboarding/internal/dto/response"
	"github.com/fithub/fithub-onboarding/internal/security"
	apperrors "github.com/fithub/fithub-onboarding/pkg/errors"
)

// ContextKey type for context keys
type ContextKey string

// ContextKeyClaims holds the validated access token claims
const ContextKeyClaims ContextKey = "claims"

var (
	errNotAuthenticated = errors.New("not authenticated")
	errForbidden        = errors.New("administrator role required")
)

// Resolver handles GraphQL resolvers. Every query is admin only.
type Resolver struct {
	applications service.TrainerApplicationService
}

// NewResolver creates a new resolver
func NewResolver(applications service.TrainerApplicationService) *Resolver {
	return &Resolver{applications: applications}
}

// Application returns one application by ID
func (r *Resolver) Application(p graphql.ResolveParams) (interface{}, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}

	id, ok := p.Args["id"].(string)
	if !ok {
		return nil, errors.New("invalid application ID")
	}
	appID, err := strconv.ParseUint(id, 10, 32)
	if err != nil || appID == 0 {
		return nil, errors.New("invalid application ID format")
	}

	app, err := r.applications.Get(p.Context, uint(appID))
	if err != nil {
		return nil, clientError(err)
	}
	return toApplication(app), nil
}

// Applications returns one page of applications, optionally by status
func (r *Resolver) Applications(p graphql.ResolveParams) (interface{}, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}

	page := 1
	size := 20
	if pageArg, ok := p.Args["page"].(int); ok {
		page = pageArg
	}
	if sizeArg, ok := p.Args["size"].(int); ok {
		size = sizeArg
	}
	status, _ := p.Args["status"].(string)

	apps, total, err := r.applications.List(p.Context, entity.ApplicationStatus(status), page, size)
	if err != nil {
		return nil, clientError(err)
	}

	// List clamps out-of-range values; report what was actually used
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	paged := response.NewPagedResponse(toApplications(apps), page, size, total)
	return map[string]interface{}{
		"items": paged.Items,
		"pageInfo": map[string]interface{}{
			"page":       paged.PageInfo.Page,
			"size":       paged.PageInfo.Size,
			"totalItems": int(paged.PageInfo.TotalItems),
			"totalPages": paged.PageInfo.TotalPages,
			"hasNext":    paged.PageInfo.HasNext,
			"hasPrev":    paged.PageInfo.HasPrev,
		},
	}, nil
}

// PendingApplications returns every pending application, oldest first
func (r *Resolver) PendingApplications(p graphql.ResolveParams) (interface{}, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}

	apps, err := r.applications.ListPending(p.Context)
	if err != nil {
		return nil, clientError(err)
	}
	return toApplications(apps), nil
}

// ApplicationCounts returns the number of applications per status
func (r *Resolver) ApplicationCounts(p graphql.ResolveParams) (interface{}, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}

	counts, err := r.applications.Counts(p.Context)
	if err != nil {
		return nil, clientError(err)
	}
	return map[string]interface{}{
		"pending":  int(counts[entity.ApplicationPending]),
		"approved": int(counts[entity.ApplicationApproved]),
		"rejected": int(counts[entity.ApplicationRejected]),
	}, nil
}

// RejectionReasons returns the preset rejection reasons
func (r *Resolver) RejectionReasons(p graphql.ResolveParams) (interface{}, error) {
	if err := requireAdmin(p.Context); err != nil {
		return nil, err
	}
	return r.applications.RejectionReasons(), nil
}

// Helper functions

// clientError keeps the client-facing message of application errors and
// hides everything else
func clientError(err error) error {
	return errors.New(apperrors.GetMessage(err))
}

func claimsFromContext(ctx context.Context) *security.UserClaims {
	if claims, ok := ctx.Value(ContextKeyClaims).(*security.UserClaims); ok {
		return claims
	}
	return nil
}

func requireAdmin(ctx context.Context) error {
	claims := claimsFromContext(ctx)
	if claims == nil {
		return errNotAuthenticated
	}
	if claims.Role != entity.RoleAdmin {
		return errForbidden
	}
	return nil
}

func toApplications(apps []*entity.TrainerApplication) []interface{} {
	out := make([]interface{}, len(apps))
	for i, app := range apps {
		out[i] = toApplication(app)
	}
	return out
}

// toApplication converts an application for GraphQL. The password hash is
// never exposed.
func toApplication(app *entity.TrainerApplication) map[string]interface{} {
	out := map[string]interface{}{
		"id":              strconv.FormatUint(uint64(app.ID), 10),
		"email":           app.Email,
		"firstName":       app.FirstName,
		"lastName":        app.LastName,
		"phone":           app.Phone,
		"dateOfBirth":     app.DateOfBirth,
		"gender":          app.Gender,
		"experience":      app.Experience,
		"certifications":  app.Certifications,
		"specializations": app.Specializations,
		"bio":             app.Bio,
		"motivation":      app.Motivation,
		"status":          string(app.Status),
		"appliedAt":       app.AppliedAt,
		"reviewedBy":      app.ReviewedBy,
		"adminNotes":      app.AdminNotes,
		"rejectionReason": app.RejectionReason,
	}
	if app.ReviewedAt != nil {
		out["reviewedAt"] = *app.ReviewedAt
	}
	if app.ActivationDispatchedAt != nil {
		out["activationDispatchedAt"] = *app.ActivationDispatchedAt
	}
	if app.TrainerUserID != nil {
		out["trainerUserId"] = strconv.FormatUint(uint64(*app.TrainerUserID), 10)
	}
	return out
}
