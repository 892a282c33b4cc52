package http

import (
	"net/http"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
)

type OrderItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type DestinationRequest struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Phone     string   `json:"phone"`
	Notes     string   `json:"notes,omitempty"`
}

type CreateOrderRequest struct {
	StoreID       string             `json:"store_id"`
	Items         []OrderItemRequest `json:"items"`
	Destination   DestinationRequest `json:"destination"`
	PaymentMethod string             `json:"payment_method"`
	Tax           string             `json:"tax,omitempty"`
	Discount      string             `json:"discount,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

type ChargesRequest struct {
	Tax      *string `json:"tax,omitempty"`
	Discount *string `json:"discount,omitempty"`
}

type PaymentRequest struct {
	Status string `json:"status"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID                       string              `json:"id"`
	CustomerID               string              `json:"customer_id"`
	StoreID                  string              `json:"store_id"`
	AreaID                   string              `json:"area_id"`
	DriverID                 *string             `json:"driver_id"`
	Status                   string              `json:"status"`
	Items                    []OrderItemResponse `json:"items"`
	Subtotal                 string              `json:"subtotal"`
	DeliveryFee              string              `json:"delivery_fee"`
	Tax                      string              `json:"tax"`
	Discount                 string              `json:"discount"`
	Total                    string              `json:"total"`
	PaymentMethod            string              `json:"payment_method"`
	PaymentStatus            string              `json:"payment_status"`
	Address                  string              `json:"address"`
	EstimatedDeliveryMinutes int                 `json:"estimated_delivery_minutes"`
	DeliveredAt              *time.Time          `json:"delivered_at,omitempty"`
	CreatedAt                time.Time           `json:"created_at"`
	UpdatedAt                time.Time           `json:"updated_at"`
	Version                  int                 `json:"version"`
}

type ActiveOrderResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	StoreID    string    `json:"store_id"`
	AreaID     string    `json:"area_id"`
	DriverID   *string   `json:"driver_id"`
	Status     string    `json:"status"`
	Total      string    `json:"total"`
	Address    string    `json:"address"`
	CreatedAt  time.Time `json:"created_at"`
}

type AssignmentResponse struct {
	OrderID  string  `json:"order_id"`
	DriverID *string `json:"driver_id"`
}

// CreateOrder handles POST /api/v1/orders. The authenticated actor is the customer.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req CreateOrderRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := req.toCommand(actor.ID)
	if err != nil {
		return err
	}

	orderID, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatedResponse{ID: orderID.String()})
}

// GetActiveOrders handles GET /api/v1/orders/active?area_id=.
func (s *Server) GetActiveOrders(c echo.Context) error {
	var areaID *kernel.UUID
	if raw := c.QueryParam("area_id"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return err
		}
		areaID = &id
	}

	query, err := queries.NewGetActiveOrdersQuery(areaID)
	if err != nil {
		return err
	}

	orders, err := s.h.GetActiveOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]ActiveOrderResponse, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrderResponse{
			ID:         o.ID.String(),
			CustomerID: o.CustomerID.String(),
			StoreID:    o.StoreID.String(),
			AreaID:     o.AreaID.String(),
			DriverID:   uuidString(o.DriverID),
			Status:     o.Status,
			Total:      o.Total,
			Address:    o.Address,
			CreatedAt:  o.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, target, actor)
	if err != nil {
		return err
	}

	o, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, actor)
	if err != nil {
		return err
	}

	o, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

// AssignDriver handles POST /api/v1/orders/:id/assign. It answers 202 with a null
// driver when nobody is available; the retry job will try again.
func (s *Server) AssignDriver(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(orderID)
	if err != nil {
		return err
	}

	d, err := s.h.AssignDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	if d == nil {
		return c.JSON(http.StatusAccepted, AssignmentResponse{OrderID: orderID.String()})
	}
	return c.JSON(http.StatusOK, AssignmentResponse{
		OrderID:  orderID.String(),
		DriverID: lo.ToPtr(d.ID().String()),
	})
}

// AddOrderItem handles POST /api/v1/orders/:id/items.
func (s *Server) AddOrderItem(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req OrderItemRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	productID, err := kernel.UUIDFromString(req.ProductID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("product_id", err)
	}

	cmd, err := commands.NewAddOrderItemCommand(orderID, productID, req.Quantity)
	if err != nil {
		return err
	}

	o, err := s.h.AddOrderItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

// RemoveOrderItem handles DELETE /api/v1/orders/:id/items/:product_id.
func (s *Server) RemoveOrderItem(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	productID, err := kernel.UUIDFromString(c.Param("product_id"))
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("product_id", err)
	}

	cmd, err := commands.NewRemoveOrderItemCommand(orderID, productID)
	if err != nil {
		return err
	}

	o, err := s.h.RemoveOrderItem.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

// AdjustOrderCharges handles PATCH /api/v1/orders/:id/charges. Omitted amounts keep
// their current value.
func (s *Server) AdjustOrderCharges(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req ChargesRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	tax, err := optionalMoney(req.Tax)
	if err != nil {
		return err
	}
	discount, err := optionalMoney(req.Discount)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAdjustOrderChargesCommand(orderID, tax, discount)
	if err != nil {
		return err
	}

	o, err := s.h.AdjustOrderCharges.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

// RecordPayment handles POST /api/v1/orders/:id/payment.
func (s *Server) RecordPayment(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	var req PaymentRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewRecordPaymentCommand(orderID, order.PaymentStatus(req.Status))
	if err != nil {
		return err
	}

	o, err := s.h.RecordPayment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, orderResponse(o))
}

func optionalMoney(raw *string) (*kernel.Money, error) {
	if raw == nil {
		return nil, nil
	}
	m, err := kernel.MoneyFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r CreateOrderRequest) toCommand(customerID kernel.UUID) (commands.CreateOrderCommand, error) {
	storeID, err := kernel.UUIDFromString(r.StoreID)
	if err != nil {
		return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("store_id", err)
	}

	items := make([]commands.OrderItemRequest, len(r.Items))
	for i, item := range r.Items {
		productID, parseErr := kernel.UUIDFromString(item.ProductID)
		if parseErr != nil {
			return commands.CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("product_id", parseErr)
		}
		items[i] = commands.OrderItemRequest{ProductID: productID, Quantity: item.Quantity}
	}

	destination := order.Destination{
		Address: r.Destination.Address,
		Phone:   r.Destination.Phone,
		Notes:   r.Destination.Notes,
	}
	if r.Destination.Latitude != nil && r.Destination.Longitude != nil {
		loc, locErr := kernel.NewLocation(*r.Destination.Latitude, *r.Destination.Longitude)
		if locErr != nil {
			return commands.CreateOrderCommand{}, locErr
		}
		destination.Location = &loc
	}

	var adjustments commands.Adjustments
	if r.Tax != "" {
		if adjustments.Tax, err = kernel.MoneyFromString(r.Tax); err != nil {
			return commands.CreateOrderCommand{}, err
		}
	}
	if r.Discount != "" {
		if adjustments.Discount, err = kernel.MoneyFromString(r.Discount); err != nil {
			return commands.CreateOrderCommand{}, err
		}
	}

	return commands.NewCreateOrderCommand(customerID, storeID, items, destination,
		order.PaymentMethod(r.PaymentMethod), adjustments)
}

func orderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID().String(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().String(),
			LineTotal: item.LineTotal().String(),
		})
	}

	return OrderResponse{
		ID:                       o.ID().String(),
		CustomerID:               o.CustomerID().String(),
		StoreID:                  o.StoreID().String(),
		AreaID:                   o.AreaID().String(),
		DriverID:                 uuidString(o.Driver()),
		Status:                   o.Status().String(),
		Items:                    items,
		Subtotal:                 o.Subtotal().String(),
		DeliveryFee:              o.DeliveryFee().String(),
		Tax:                      o.Tax().String(),
		Discount:                 o.Discount().String(),
		Total:                    o.Total().String(),
		PaymentMethod:            string(o.PaymentMethod()),
		PaymentStatus:            string(o.PaymentStatus()),
		Address:                  o.Destination().Address,
		EstimatedDeliveryMinutes: int(o.EstimatedDelivery().Minutes()),
		DeliveredAt:              o.DeliveredAt(),
		CreatedAt:                o.CreatedAt(),
		UpdatedAt:                o.UpdatedAt(),
		Version:                  o.Version(),
	}
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	return lo.ToPtr(id.String())
}
