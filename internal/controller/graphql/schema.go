package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/fithub/fithub-onboarding/internal/domain/entity"
)

// Schema represents the GraphQL schema
type Schema struct {
	schema graphql.Schema
}

// BuildSchema builds the read-only admin schema
func BuildSchema(resolver *Resolver) (*Schema, error) {
	statusEnum := graphql.NewEnum(graphql.EnumConfig{
		Name: "ApplicationStatus",
		Values: graphql.EnumValueConfigMap{
			"PENDING":  &graphql.EnumValueConfig{Value: string(entity.ApplicationPending)},
			"APPROVED": &graphql.EnumValueConfig{Value: string(entity.ApplicationApproved)},
			"REJECTED": &graphql.EnumValueConfig{Value: string(entity.ApplicationRejected)},
		},
	})

	// Application type
	applicationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TrainerApplication",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
			},
			"email": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"firstName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"lastName": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
			},
			"phone": &graphql.Field{
				Type: graphql.String,
			},
			"dateOfBirth": &graphql.Field{
				Type: graphql.String,
			},
			"gender": &graphql.Field{
				Type: graphql.String,
			},
			"experience": &graphql.Field{
				Type: graphql.String,
			},
			"certifications": &graphql.Field{
				Type: graphql.String,
			},
			"specializations": &graphql.Field{
				Type: graphql.String,
			},
			"bio": &graphql.Field{
				Type: graphql.String,
			},
			"motivation": &graphql.Field{
				Type: graphql.String,
			},
			"status": &graphql.Field{
				Type: graphql.NewNonNull(statusEnum),
			},
			"appliedAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
			},
			"reviewedBy": &graphql.Field{
				Type: graphql.String,
			},
			"reviewedAt": &graphql.Field{
				Type: graphql.DateTime,
			},
			"adminNotes": &graphql.Field{
				Type: graphql.String,
			},
			"rejectionReason": &graphql.Field{
				Type: graphql.String,
			},
			"activationDispatchedAt": &graphql.Field{
				Type: graphql.DateTime,
			},
			"trainerUserId": &graphql.Field{
				Type: graphql.ID,
			},
		},
	})

	// Page info type
	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"page": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"size": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"totalItems": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"totalPages": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"hasNext": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
			},
			"hasPrev": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
			},
		},
	})

	applicationsConnectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ApplicationsConnection",
		Fields: graphql.Fields{
			"items": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(applicationType))),
			},
			"pageInfo": &graphql.Field{
				Type: graphql.NewNonNull(pageInfoType),
			},
		},
	})

	countsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ApplicationCounts",
		Fields: graphql.Fields{
			"pending": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"approved": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
			"rejected": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
			},
		},
	})

	// Query type
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"application": &graphql.Field{
				Type:        applicationType,
				Description: "Get a trainer application by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: resolver.Application,
			},
			"applications": &graphql.Field{
				Type:        applicationsConnectionType,
				Description: "List trainer applications, newest first",
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{
						Type: statusEnum,
					},
					"page": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 1,
					},
					"size": &graphql.ArgumentConfig{
						Type:         graphql.Int,
						DefaultValue: 20,
					},
				},
				Resolve: resolver.Applications,
			},
			"pendingApplications": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(applicationType)),
				Description: "List pending trainer applications, oldest first",
				Resolve:     resolver.PendingApplications,
			},
			"applicationCounts": &graphql.Field{
				Type:        countsType,
				Description: "Count trainer applications by status",
				Resolve:     resolver.ApplicationCounts,
			},
			"rejectionReasons": &graphql.Field{
				Type:        graphql.NewList(graphql.NewNonNull(graphql.String)),
				Description: "Preset rejection reasons",
				Resolve:     resolver.RejectionReasons,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return nil, err
	}

	return &Schema{schema: schema}, nil
}

// Schema returns the graphql.Schema
func (s *Schema) Schema() graphql.Schema {
	return s.schema
}
