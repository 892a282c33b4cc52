package http

import (
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Authentication happens in front of this service; the gateway forwards the
// authenticated user in these headers.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

func actorFrom(c echo.Context) (order.Actor, error) {
	raw := c.Request().Header.Get(HeaderActorID)
	if raw == "" {
		return order.Actor{}, errs.NewValueIsRequiredError(HeaderActorID)
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return order.Actor{}, err
	}

	role := order.Role(c.Request().Header.Get(HeaderActorRole))
	if role == "" {
		role = order.RoleCustomer
	}
	return order.NewActor(id, role)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}
