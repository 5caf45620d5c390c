// Package http exposes the order management API over HTTP using echo.
// Command routes funnel through the per-order dispatcher so concurrent
// requests against one order execute strictly one at a time; query routes
// read the store directly and never touch the dispatcher.
package http

import (
	"context"
	"errors"
	"net/http"

	"tableside/internal/core/application/actor"
	"tableside/internal/core/application/usecases/commands"
	"tableside/internal/core/application/usecases/queries"
	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"
	"tableside/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// CommandHandlers bundles the write-side handlers the server routes to.
type CommandHandlers struct {
	OpenOrder          commands.OpenOrderCommandHandler
	AddLine            commands.AddLineCommandHandler
	UpdateLine         commands.UpdateLineCommandHandler
	VoidLine           commands.VoidLineCommandHandler
	RemoveLine         commands.RemoveLineCommandHandler
	OverridePrice      commands.OverridePriceCommandHandler
	AssignSeat         commands.AssignSeatCommandHandler
	ApplyOrderDiscount commands.ApplyOrderDiscountCommandHandler
	ApplyLineDiscount  commands.ApplyLineDiscountCommandHandler
	RemoveLineDiscount commands.RemoveLineDiscountCommandHandler
	AddServiceCharge   commands.AddServiceChargeCommandHandler
	HoldItems          commands.HoldItemsCommandHandler
	ReleaseItems       commands.ReleaseItemsCommandHandler
	SetItemCourse      commands.SetItemCourseCommandHandler
	FireItems          commands.FireItemsCommandHandler
	FireCourse         commands.FireCourseCommandHandler
	FireAll            commands.FireAllCommandHandler
	RecordPayment      commands.RecordPaymentCommandHandler
	RemovePayment      commands.RemovePaymentCommandHandler
	CloseOrder         commands.CloseOrderCommandHandler
	VoidOrder          commands.VoidOrderCommandHandler
	ReopenOrder        commands.ReopenOrderCommandHandler
	MergeOrders        commands.MergeOrdersCommandHandler
}

// QueryHandlers bundles the read-side handlers the server routes to.
type QueryHandlers struct {
	GetOrder       queries.GetOrderQueryHandler
	GetTotals      queries.GetTotalsQueryHandler
	GetHoldSummary queries.GetHoldSummaryQueryHandler
	GetOpenOrders  queries.GetOpenOrdersQueryHandler
}

// Server wires HTTP routes to command and query handlers.
type Server struct {
	sequencer commands.Sequencer
	cmd       CommandHandlers
	qry       QueryHandlers
}

// NewServer creates the HTTP server. The sequencer serializes command
// execution per order; the merge handler carries its own sequencer and is
// invoked directly.
func NewServer(sequencer commands.Sequencer, cmd CommandHandlers, qry QueryHandlers) *Server {
	return &Server{sequencer: sequencer, cmd: cmd, qry: qry}
}

// RegisterRoutes attaches every API route to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/orgs/:orgId/sites/:siteId/orders")

	g.POST("", s.OpenOrder)
	g.GET("", s.GetOpenOrders)
	g.GET("/:orderId", s.GetOrder)
	g.GET("/:orderId/totals", s.GetTotals)
	g.GET("/:orderId/hold-summary", s.GetHoldSummary)

	g.POST("/:orderId/lines", s.AddLine)
	g.PATCH("/:orderId/lines/:lineId", s.UpdateLine)
	g.DELETE("/:orderId/lines/:lineId", s.RemoveLine)
	g.POST("/:orderId/lines/:lineId/void", s.VoidLine)
	g.POST("/:orderId/lines/:lineId/price-override", s.OverridePrice)
	g.POST("/:orderId/lines/:lineId/seat", s.AssignSeat)
	g.POST("/:orderId/lines/:lineId/discount", s.ApplyLineDiscount)
	g.DELETE("/:orderId/lines/:lineId/discount", s.RemoveLineDiscount)

	g.POST("/:orderId/discounts", s.ApplyOrderDiscount)
	g.POST("/:orderId/service-charges", s.AddServiceCharge)

	g.POST("/:orderId/hold", s.HoldItems)
	g.POST("/:orderId/release", s.ReleaseItems)
	g.POST("/:orderId/course", s.SetItemCourse)
	g.POST("/:orderId/fire", s.FireItems)
	g.POST("/:orderId/fire-course", s.FireCourse)
	g.POST("/:orderId/fire-all", s.FireAll)

	g.POST("/:orderId/payments", s.RecordPayment)
	g.DELETE("/:orderId/payments/:paymentId", s.RemovePayment)

	g.POST("/:orderId/close", s.CloseOrder)
	g.POST("/:orderId/void", s.VoidOrder)
	g.POST("/:orderId/reopen", s.ReopenOrder)
	g.POST("/:orderId/merge", s.MergeOrders)
}

// ErrorResponse is the uniform error body of the API.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain error kinds onto HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	var (
		validationErr    *errs.ValidationError
		notFoundErr      *errs.NotFoundError
		invalidStateErr  *errs.InvalidStateError
		alreadyExistsErr *errs.AlreadyExistsError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	case errors.As(err, &invalidStateErr):
		status = http.StatusConflict
	case errors.As(err, &alreadyExistsErr):
		status = http.StatusConflict
	case errors.Is(err, actor.ErrDispatcherClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	}

	return ctx.JSON(status, ErrorResponse{Code: status, Message: err.Error()})
}

// writeCommandError answers 400; command constructors only fail on bad input.
func writeCommandError(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: err.Error(),
	})
}

func writeBindError(ctx echo.Context) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "invalid request body",
	})
}

// orderRef builds the order reference from the route parameters.
func orderRef(ctx echo.Context) (kernel.OrderRef, error) {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return kernel.OrderRef{}, errs.NewValidationErrorWithCause("orderId", err)
	}
	return kernel.NewOrderRef(ctx.Param("orgId"), ctx.Param("siteId"), orderID)
}

// dispatch runs fn on the order's command queue.
func (s *Server) dispatch(ctx echo.Context, ref kernel.OrderRef, fn func(context.Context) error) error {
	return s.sequencer.Do(ctx.Request().Context(), ref.Key(), fn)
}

func parseLineIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, errs.NewValidationErrorWithCause("lineIds", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// OpenOrder handles POST .../orders - opens a new order.
func (s *Server) OpenOrder(ctx echo.Context) error {
	var req struct {
		OrderID    string `json:"order_id,omitempty"`
		OrderType  string `json:"order_type"`
		GuestCount int    `json:"guest_count"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	// Clients may supply the order id so retried opens stay idempotent.
	orderID := kernel.NewUUID()
	if req.OrderID != "" {
		parsed, err := kernel.UUIDFromString(req.OrderID)
		if err != nil {
			return writeError(ctx, errs.NewValidationErrorWithCause("orderId", err))
		}
		orderID = parsed
	}

	ref, err := kernel.NewOrderRef(ctx.Param("orgId"), ctx.Param("siteId"), orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	orderType, err := order.ParseType(req.OrderType)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewOpenOrderCommand(ref, orderType, req.GuestCount)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	if err = s.dispatch(ctx, ref, func(c context.Context) error {
		return s.cmd.OpenOrder.Handle(c, cmd)
	}); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"order_id": orderID.String()})
}

// AddLine handles POST .../orders/:orderId/lines.
func (s *Server) AddLine(ctx echo.Context) error {
	var req struct {
		MenuItemRef string  `json:"menu_item_ref,omitempty"`
		Name        string  `json:"name"`
		Quantity    int     `json:"quantity"`
		UnitPrice   float64 `json:"unit_price"`
		TaxRate     float64 `json:"tax_rate"`
		Seat        int     `json:"seat,omitempty"`
		Modifiers   []struct {
			Name     string  `json:"name"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity"`
		} `json:"modifiers,omitempty"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	modifiers := make([]order.Modifier, 0, len(req.Modifiers))
	for _, m := range req.Modifiers {
		modifier, modErr := order.NewModifier(m.Name, kernel.NewMoneyFromFloat(m.Price), m.Quantity)
		if modErr != nil {
			return writeError(ctx, modErr)
		}
		modifiers = append(modifiers, modifier)
	}

	cmd, err := commands.NewAddLineCommand(
		ref, req.MenuItemRef, req.Name, req.Quantity,
		kernel.NewMoneyFromFloat(req.UnitPrice),
		decimal.NewFromFloat(req.TaxRate),
		modifiers, req.Seat,
	)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	var lineID kernel.UUID
	if err = s.dispatch(ctx, ref, func(c context.Context) error {
		var handleErr error
		lineID, handleErr = s.cmd.AddLine.Handle(c, cmd)
		return handleErr
	}); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"line_id": lineID.String()})
}

// UpdateLine handles PATCH .../orders/:orderId/lines/:lineId.
func (s *Server) UpdateLine(ctx echo.Context) error {
	var req struct {
		Quantity *int `json:"quantity,omitempty"`
		Seat     *int `json:"seat,omitempty"`
		Course   *int `json:"course,omitempty"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateLineCommand(ref, lineID, req.Quantity, req.Seat, req.Course)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.UpdateLine.Handle(c, cmd)
	})
}

// VoidLine handles POST .../orders/:orderId/lines/:lineId/void.
func (s *Server) VoidLine(ctx echo.Context) error {
	var req struct {
		Actor  string `json:"actor"`
		Reason string `json:"reason"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewVoidLineCommand(ref, lineID, req.Actor, req.Reason)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.VoidLine.Handle(c, cmd)
	})
}

// RemoveLine handles DELETE .../orders/:orderId/lines/:lineId.
func (s *Server) RemoveLine(ctx echo.Context) error {
	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRemoveLineCommand(ref, lineID)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.RemoveLine.Handle(c, cmd)
	})
}

// OverridePrice handles POST .../orders/:orderId/lines/:lineId/price-override.
func (s *Server) OverridePrice(ctx echo.Context) error {
	var req struct {
		NewPrice float64 `json:"new_price"`
		Reason   string  `json:"reason"`
		Actor    string  `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewOverridePriceCommand(
		ref, lineID, kernel.NewMoneyFromFloat(req.NewPrice), req.Reason, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.OverridePrice.Handle(c, cmd)
	})
}

// AssignSeat handles POST .../orders/:orderId/lines/:lineId/seat.
func (s *Server) AssignSeat(ctx echo.Context) error {
	var req struct {
		Seat  int    `json:"seat"`
		Actor string `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAssignSeatCommand(ref, lineID, req.Seat, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.AssignSeat.Handle(c, cmd)
	})
}

// ApplyOrderDiscount handles POST .../orders/:orderId/discounts.
func (s *Server) ApplyOrderDiscount(ctx echo.Context) error {
	var req struct {
		Description string  `json:"description"`
		Type        string  `json:"type"`
		Value       float64 `json:"value"`
		Actor       string  `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	dtype, err := order.ParseDiscountType(req.Type)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyOrderDiscountCommand(
		ref, req.Description, dtype, decimal.NewFromFloat(req.Value), req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.ApplyOrderDiscount.Handle(c, cmd)
	})
}

// ApplyLineDiscount handles POST .../orders/:orderId/lines/:lineId/discount.
func (s *Server) ApplyLineDiscount(ctx echo.Context) error {
	var req struct {
		Type   string  `json:"type"`
		Value  float64 `json:"value"`
		Actor  string  `json:"actor"`
		Reason string  `json:"reason"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	dtype, err := order.ParseDiscountType(req.Type)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyLineDiscountCommand(
		ref, lineID, dtype, decimal.NewFromFloat(req.Value), req.Actor, req.Reason)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.ApplyLineDiscount.Handle(c, cmd)
	})
}

// RemoveLineDiscount handles DELETE .../orders/:orderId/lines/:lineId/discount.
func (s *Server) RemoveLineDiscount(ctx echo.Context) error {
	actor := ctx.QueryParam("actor")

	ref, lineID, err := s.lineScope(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRemoveLineDiscountCommand(ref, lineID, actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.RemoveLineDiscount.Handle(c, cmd)
	})
}

// AddServiceCharge handles POST .../orders/:orderId/service-charges.
func (s *Server) AddServiceCharge(ctx echo.Context) error {
	var req struct {
		Name    string  `json:"name"`
		Amount  float64 `json:"amount"`
		Taxable bool    `json:"taxable"`
		Actor   string  `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAddServiceChargeCommand(
		ref, req.Name, kernel.NewMoneyFromFloat(req.Amount), req.Taxable, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.AddServiceCharge.Handle(c, cmd)
	})
}

// HoldItems handles POST .../orders/:orderId/hold.
func (s *Server) HoldItems(ctx echo.Context) error {
	var req struct {
		LineIDs []string `json:"line_ids"`
		Actor   string   `json:"actor"`
		Reason  string   `json:"reason,omitempty"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	lineIDs, err := parseLineIDs(req.LineIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewHoldItemsCommand(ref, lineIDs, req.Actor, req.Reason)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.HoldItems.Handle(c, cmd)
	})
}

// ReleaseItems handles POST .../orders/:orderId/release.
func (s *Server) ReleaseItems(ctx echo.Context) error {
	var req struct {
		LineIDs []string `json:"line_ids"`
		Actor   string   `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	lineIDs, err := parseLineIDs(req.LineIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewReleaseItemsCommand(ref, lineIDs, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.ReleaseItems.Handle(c, cmd)
	})
}

// SetItemCourse handles POST .../orders/:orderId/course.
func (s *Server) SetItemCourse(ctx echo.Context) error {
	var req struct {
		LineIDs []string `json:"line_ids"`
		Course  int      `json:"course"`
		Actor   string   `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	lineIDs, err := parseLineIDs(req.LineIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSetItemCourseCommand(ref, lineIDs, req.Course, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.SetItemCourse.Handle(c, cmd)
	})
}

// FireItems handles POST .../orders/:orderId/fire.
func (s *Server) FireItems(ctx echo.Context) error {
	var req struct {
		LineIDs []string `json:"line_ids"`
		Actor   string   `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	lineIDs, err := parseLineIDs(req.LineIDs)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewFireItemsCommand(ref, lineIDs, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.fire(ctx, ref, func(c context.Context) ([]kernel.UUID, error) {
		return s.cmd.FireItems.Handle(c, cmd)
	})
}

// FireCourse handles POST .../orders/:orderId/fire-course.
func (s *Server) FireCourse(ctx echo.Context) error {
	var req struct {
		Course int    `json:"course"`
		Actor  string `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewFireCourseCommand(ref, req.Course, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.fire(ctx, ref, func(c context.Context) ([]kernel.UUID, error) {
		return s.cmd.FireCourse.Handle(c, cmd)
	})
}

// FireAll handles POST .../orders/:orderId/fire-all.
func (s *Server) FireAll(ctx echo.Context) error {
	var req struct {
		Actor string `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewFireAllCommand(ref, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.fire(ctx, ref, func(c context.Context) ([]kernel.UUID, error) {
		return s.cmd.FireAll.Handle(c, cmd)
	})
}

// RecordPayment handles POST .../orders/:orderId/payments.
func (s *Server) RecordPayment(ctx echo.Context) error {
	var req struct {
		PaymentID string  `json:"payment_id,omitempty"`
		Amount    float64 `json:"amount"`
		Tip       float64 `json:"tip,omitempty"`
		Method    string  `json:"method"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	// Client-supplied payment ids make retried requests idempotent: the
	// duplicate id is rejected instead of double charging the check.
	paymentID := kernel.NewUUID()
	if req.PaymentID != "" {
		parsed, idErr := kernel.UUIDFromString(req.PaymentID)
		if idErr != nil {
			return writeError(ctx, errs.NewValidationErrorWithCause("paymentId", idErr))
		}
		paymentID = parsed
	}

	cmd, err := commands.NewRecordPaymentCommand(
		ref, paymentID,
		kernel.NewMoneyFromFloat(req.Amount),
		kernel.NewMoneyFromFloat(req.Tip),
		req.Method,
	)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	if err = s.dispatch(ctx, ref, func(c context.Context) error {
		return s.cmd.RecordPayment.Handle(c, cmd)
	}); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, echo.Map{"payment_id": paymentID.String()})
}

// RemovePayment handles DELETE .../orders/:orderId/payments/:paymentId.
func (s *Server) RemovePayment(ctx echo.Context) error {
	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	paymentID, err := kernel.UUIDFromString(ctx.Param("paymentId"))
	if err != nil {
		return writeError(ctx, errs.NewValidationErrorWithCause("paymentId", err))
	}

	cmd, err := commands.NewRemovePaymentCommand(ref, paymentID)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.RemovePayment.Handle(c, cmd)
	})
}

// CloseOrder handles POST .../orders/:orderId/close.
func (s *Server) CloseOrder(ctx echo.Context) error {
	var req struct {
		Actor          string `json:"actor"`
		AllowUnsettled bool   `json:"allow_unsettled,omitempty"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCloseOrderCommand(ref, req.Actor, req.AllowUnsettled)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.CloseOrder.Handle(c, cmd)
	})
}

// VoidOrder handles POST .../orders/:orderId/void.
func (s *Server) VoidOrder(ctx echo.Context) error {
	var req struct {
		Actor  string `json:"actor"`
		Reason string `json:"reason"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewVoidOrderCommand(ref, req.Actor, req.Reason)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.VoidOrder.Handle(c, cmd)
	})
}

// ReopenOrder handles POST .../orders/:orderId/reopen.
func (s *Server) ReopenOrder(ctx echo.Context) error {
	var req struct {
		Actor string `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	ref, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewReopenOrderCommand(ref, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	return s.run(ctx, ref, func(c context.Context) error {
		return s.cmd.ReopenOrder.Handle(c, cmd)
	})
}

// MergeOrders handles POST .../orders/:orderId/merge. The path order is the
// merge target; the body names the source tab that gets drained into it.
// The merge handler sequences its own saga steps, so this route bypasses
// the per-order dispatch wrapper.
func (s *Server) MergeOrders(ctx echo.Context) error {
	var req struct {
		SourceOrderID string `json:"source_order_id"`
		Actor         string `json:"actor"`
	}
	if err := ctx.Bind(&req); err != nil {
		return writeBindError(ctx)
	}

	targetRef, err := orderRef(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	sourceID, err := kernel.UUIDFromString(req.SourceOrderID)
	if err != nil {
		return writeError(ctx, errs.NewValidationErrorWithCause("sourceOrderId", err))
	}
	sourceRef, err := kernel.NewOrderRef(ctx.Param("orgId"), ctx.Param("siteId"), sourceID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewMergeOrdersCommand(sourceRef, targetRef, req.Actor)
	if err != nil {
		return writeCommandError(ctx, err)
	}

	result, err := s.cmd.MergeOrders.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, echo.Map{
		"lines_merged":    result.LinesMerged,
		"payments_merged": result.PaymentsMerged,
	})
}

// GetOrder handles GET .../orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	query, err := orderQueryScope(ctx, queries.NewGetOrderQuery)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.qry.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetTotals handles GET .../orders/:orderId/totals.
func (s *Server) GetTotals(ctx echo.Context) error {
	query, err := orderQueryScope(ctx, queries.NewGetTotalsQuery)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.qry.GetTotals.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetHoldSummary handles GET .../orders/:orderId/hold-summary.
func (s *Server) GetHoldSummary(ctx echo.Context) error {
	query, err := orderQueryScope(ctx, queries.NewGetHoldSummaryQuery)
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.qry.GetHoldSummary.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// GetOpenOrders handles GET .../orders.
func (s *Server) GetOpenOrders(ctx echo.Context) error {
	query, err := queries.NewGetOpenOrdersQuery(ctx.Param("orgId"), ctx.Param("siteId"))
	if err != nil {
		return writeError(ctx, err)
	}

	resp, err := s.qry.GetOpenOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, resp)
}

// run dispatches a void command and answers 204 on success.
func (s *Server) run(ctx echo.Context, ref kernel.OrderRef, fn func(context.Context) error) error {
	if err := s.dispatch(ctx, ref, fn); err != nil {
		return writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// fire dispatches a kitchen fire command and answers with the fired line ids.
func (s *Server) fire(ctx echo.Context, ref kernel.OrderRef, fn func(context.Context) ([]kernel.UUID, error)) error {
	var fired []kernel.UUID
	if err := s.dispatch(ctx, ref, func(c context.Context) error {
		var handleErr error
		fired, handleErr = fn(c)
		return handleErr
	}); err != nil {
		return writeError(ctx, err)
	}

	ids := make([]string, 0, len(fired))
	for _, id := range fired {
		ids = append(ids, id.String())
	}
	return ctx.JSON(http.StatusOK, echo.Map{"fired_line_ids": ids})
}

// lineScope extracts the order ref and line id from the route parameters.
func (s *Server) lineScope(ctx echo.Context) (kernel.OrderRef, kernel.UUID, error) {
	ref, err := orderRef(ctx)
	if err != nil {
		return kernel.OrderRef{}, kernel.UUID{}, err
	}
	lineID, err := kernel.UUIDFromString(ctx.Param("lineId"))
	if err != nil {
		return kernel.OrderRef{}, kernel.UUID{}, errs.NewValidationErrorWithCause("lineId", err)
	}
	return ref, lineID, nil
}

// orderQueryScope builds a single-order query from the route parameters.
func orderQueryScope[Q any](
	ctx echo.Context,
	build func(string, string, kernel.UUID) (Q, error),
) (Q, error) {
	var zero Q
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return zero, errs.NewValidationErrorWithCause("orderId", err)
	}
	return build(ctx.Param("orgId"), ctx.Param("siteId"), orderID)
}
