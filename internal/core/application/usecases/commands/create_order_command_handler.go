package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/samber/lo"
)

// CreateOrderCommandHandler prices a checkout request against the catalog and
// stores the resulting pending order.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, stores, publisher, 45*time.Minute, logger)
//	cmd, _ := NewCreateOrderCommand(customerID, storeID, items, destination, order.PaymentCash, Adjustments{})
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	catalog         ports.ProductCatalog
	stores          ports.StoreDirectory
	publisher       ports.EventPublisher
	defaultDelivery time.Duration
	logger          *slog.Logger
}

// NewCreateOrderCommandHandler creates the handler. defaultDelivery is used when
// the store does not declare its own estimated delivery time.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ProductCatalog,
	stores ports.StoreDirectory,
	publisher ports.EventPublisher,
	defaultDelivery time.Duration,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:      uowFactory,
		catalog:         catalog,
		stores:          stores,
		publisher:       publisher,
		defaultDelivery: defaultDelivery,
		logger:          loggerOrDefault(logger),
	}
}

// Handle creates the order and returns its id. Inactive stores and unknown,
// foreign or unavailable products are rejected with a validation error.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	store, err := h.stores.GetStore(ctx, cmd.StoreID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if !store.Active {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("store",
			fmt.Errorf("store %s is not accepting orders", store.ID))
	}

	items, err := h.priceItems(ctx, store, cmd.Items())
	if err != nil {
		return kernel.UUID{}, err
	}

	eta := store.EstimatedDeliveryTime
	if eta <= 0 {
		eta = h.defaultDelivery
	}

	adj := cmd.Adjustments()
	o, err := order.NewOrder(
		kernel.NewUUID(),
		order.Placement{CustomerID: cmd.CustomerID(), StoreID: store.ID, AreaID: store.AreaID},
		items,
		order.Charges{DeliveryFee: store.DeliveryFee, Tax: adj.Tax, Discount: adj.Discount},
		cmd.Destination(),
		cmd.Payment(),
		eta,
		time.Now().UTC(),
	)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	publishCommitted(ctx, h.publisher, h.logger, uow)
	return o.ID(), nil
}

func (h CreateOrderCommandHandler) priceItems(
	ctx context.Context,
	store ports.Store,
	requested []OrderItemRequest,
) ([]order.LineItem, error) {
	ids := lo.Uniq(lo.Map(requested, func(r OrderItemRequest, _ int) kernel.UUID { return r.ProductID }))
	products, err := h.catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(requested))
	for _, r := range requested {
		p, ok := products[r.ProductID]
		switch {
		case !ok:
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("product %s does not exist", r.ProductID))
		case !p.StoreID.IsEqual(store.ID):
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("product %s is not sold by store %s", r.ProductID, store.ID))
		case !p.Available:
			return nil, errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("product %s is unavailable", r.ProductID))
		}

		item, itemErr := order.NewLineItem(p.ID, p.Name, r.Quantity, p.Price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return items, nil
}
