package employee

import (
	"net/http"
	"time"

	"github.com/fedmcp/fmcpx/internal/api"
	"github.com/fedmcp/fmcpx/internal/api/httperrors"
	"github.com/fedmcp/fmcpx/internal/hr"
	"github.com/fedmcp/fmcpx/internal/types"
	"github.com/fedmcp/fmcpx/internal/util"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
)

func PostEmployeeRoute(s *api.Server) *echo.Route {
	return s.Router.Root.POST("/employee", postEmployeeHandler(s))
}

func postEmployeeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostEmployeePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		e, ok := s.Employees.Lookup(swag.StringValue(body.EmployeeID))
		if !ok {
			log.Debug().Str("employee_id", swag.StringValue(body.EmployeeID)).Msg("Employee not found")
			return httperrors.ErrEmployeeNotFound
		}

		requestedBy := c.RealIP()
		if requestedBy == "" {
			requestedBy = "unknown"
		}
		now := strfmt.DateTime(s.Clock.Now().UTC().Truncate(time.Second))
		hireDate := strfmt.DateTime(e.HireDate)

		return util.ValidateAndReturn(c, http.StatusOK, &types.EmployeeResponse{
			EmployeeID: swag.String(e.ID),
			FirstName:  swag.String(e.FirstName),
			LastName:   swag.String(e.LastName),
			HireDate:   &hireDate,
			Status:     swag.String(e.Status),
			AuditTags: &types.AuditTags{
				RequestedBy: swag.String(requestedBy),
				Timestamp:   &now,
				Purpose:     swag.String(hr.LookupPurpose),
			},
		})
	}
}
