package commands

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	EventSource interface {
		PullDomainEvents() []kernel.DomainEvent
	}

	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventSource
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}

	UoW interface {
		TxManager
		DriverRepoFactory
		OrderRepoFactory
		EventSource
	}

	UoWFactory interface {
		Create() UoW
	}
)
