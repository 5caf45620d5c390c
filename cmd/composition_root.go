package cmd

import (
	"log/slog"

	"tableside/internal/adapters/in/http"
	"tableside/internal/adapters/out/postgres"
	"tableside/internal/core/application/actor"
	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/application/usecases/queries"
	"tableside/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	dispatcher *actor.Dispatcher
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		dispatcher: actor.NewDispatcher(logger),
	}
}

// Dispatcher returns the per-order command dispatcher. Main shuts it down
// after the HTTP server stops accepting requests.
func (c *CompositionRoot) Dispatcher() *actor.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// CreateCommandHandlers builds the full write-side handler bundle for the
// HTTP server.
func (c *CompositionRoot) CreateCommandHandlers() http.CommandHandlers {
	f := c.orderUoWFactory()
	return http.CommandHandlers{
		OpenOrder:          commands.NewOpenOrderCommandHandler(f),
		AddLine:            commands.NewAddLineCommandHandler(f),
		UpdateLine:         commands.NewUpdateLineCommandHandler(f),
		VoidLine:           commands.NewVoidLineCommandHandler(f),
		RemoveLine:         commands.NewRemoveLineCommandHandler(f),
		OverridePrice:      commands.NewOverridePriceCommandHandler(f),
		AssignSeat:         commands.NewAssignSeatCommandHandler(f),
		ApplyOrderDiscount: commands.NewApplyOrderDiscountCommandHandler(f),
		ApplyLineDiscount:  commands.NewApplyLineDiscountCommandHandler(f),
		RemoveLineDiscount: commands.NewRemoveLineDiscountCommandHandler(f),
		AddServiceCharge:   commands.NewAddServiceChargeCommandHandler(f),
		HoldItems:          commands.NewHoldItemsCommandHandler(f),
		ReleaseItems:       commands.NewReleaseItemsCommandHandler(f),
		SetItemCourse:      commands.NewSetItemCourseCommandHandler(f),
		FireItems:          commands.NewFireItemsCommandHandler(f),
		FireCourse:         commands.NewFireCourseCommandHandler(f),
		FireAll:            commands.NewFireAllCommandHandler(f),
		RecordPayment:      commands.NewRecordPaymentCommandHandler(f),
		RemovePayment:      commands.NewRemovePaymentCommandHandler(f),
		CloseOrder:         commands.NewCloseOrderCommandHandler(f),
		VoidOrder:          commands.NewVoidOrderCommandHandler(f),
		ReopenOrder:        commands.NewReopenOrderCommandHandler(f),
		MergeOrders:        commands.NewMergeOrdersCommandHandler(f, c.dispatcher),
	}
}

// CreateQueryHandlers builds the read-side handler bundle for the HTTP
// server. Queries go straight to the database, bypassing the dispatcher.
func (c *CompositionRoot) CreateQueryHandlers() http.QueryHandlers {
	return http.QueryHandlers{
		GetOrder:       queries.NewGetOrderQueryHandler(c.gormDB),
		GetTotals:      queries.NewGetTotalsQueryHandler(c.gormDB),
		GetHoldSummary: queries.NewGetHoldSummaryQueryHandler(c.gormDB),
		GetOpenOrders:  queries.NewGetOpenOrdersQueryHandler(c.gormDB),
	}
}

// CreateJobManager builds the background job manager.
func (c *CompositionRoot) CreateJobManager(configs Config, logger *slog.Logger) *jobs.JobManager {
	return jobs.NewJobManager(
		c.orderUoWFactory(),
		commands.NewCloseOrderCommandHandler(c.orderUoWFactory()),
		c.dispatcher,
		configs.AutoCloseSchedule,
		configs.AutoCloseStaleAfter,
		logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
