package commands

import (
	"context"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

type AddOrderItemCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
}

func NewAddOrderItemCommandHandler(uowFactory OrderUoWFactory, catalog ports.ProductCatalog) AddOrderItemCommandHandler {
	return AddOrderItemCommandHandler{uowFactory: uowFactory, catalog: catalog}
}

// Handle prices the product from the catalog and adds it to the order. The product
// must be available and sold by the order's store.
func (h AddOrderItemCommandHandler) Handle(ctx context.Context, cmd AddOrderItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	products, err := h.catalog.GetProducts(ctx, []kernel.UUID{cmd.ProductID()})
	if err != nil {
		return nil, err
	}
	p, ok := products[cmd.ProductID()]
	switch {
	case !ok:
		return nil, errs.NewValueIsInvalidErrorWithCause("product_id",
			fmt.Errorf("product %s does not exist", cmd.ProductID()))
	case !p.Available:
		return nil, errs.NewValueIsInvalidErrorWithCause("product_id",
			fmt.Errorf("product %s is unavailable", cmd.ProductID()))
	}

	item, err := order.NewLineItem(p.ID, p.Name, cmd.Quantity(), p.Price)
	if err != nil {
		return nil, err
	}

	return updateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		if !p.StoreID.IsEqual(o.StoreID()) {
			return errs.NewValueIsInvalidErrorWithCause("product_id",
				fmt.Errorf("product %s is not sold by store %s", p.ID, o.StoreID()))
		}
		return o.AddItem(item, now)
	})
}

type RemoveOrderItemCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRemoveOrderItemCommandHandler(uowFactory OrderUoWFactory) RemoveOrderItemCommandHandler {
	return RemoveOrderItemCommandHandler{uowFactory: uowFactory}
}

// Handle fails with ErrObjectNotFound when the product is not on the order and
// refuses to remove the last line.
func (h RemoveOrderItemCommandHandler) Handle(ctx context.Context, cmd RemoveOrderItemCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.RemoveItem(cmd.ProductID(), now)
	})
}
