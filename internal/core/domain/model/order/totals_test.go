package order_test

import (
	"testing"

	"tableside/internal/core/domain/model/kernel"
	"tableside/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMoney(t *testing.T, expected string, actual kernel.Money) {
	t.Helper()
	assert.Equal(t, expected, actual.Decimal().StringFixed(2))
}

func TestTotals_DiscountScenario(t *testing.T) {
	// Two burgers at 12.00 plus a beer at 6.00, 10% order discount,
	// 10% tax on every line.
	o := newTestOrder(t)
	mustAddLine(t, o, "Burger", 2, 12, 0.10)
	mustAddLine(t, o, "Beer", 1, 6, 0.10)

	require.NoError(t, o.ApplyOrderDiscount("regulars", order.Percentage, decimal.NewFromInt(10), "manager"))

	totals := o.Totals()
	assertMoney(t, "30.00", totals.Subtotal())
	assertMoney(t, "3.00", totals.DiscountTotal())
	assertMoney(t, "3.00", totals.TaxTotal())
	assertMoney(t, "30.00", totals.GrandTotal())
}

func TestTotals_WeightedTaxRate(t *testing.T) {
	t.Run("taxable service charge taxed at covers weighted rate", func(t *testing.T) {
		// 60.00 of food at 10% and 40.00 of drink at 20% puts the
		// weighted rate at 0.14, so a taxable 10.00 charge adds 1.40.
		o := newTestOrder(t)
		mustAddLine(t, o, "Tasting menu", 1, 60, 0.10)
		mustAddLine(t, o, "Wine pairing", 1, 40, 0.20)

		require.NoError(t, o.AddServiceCharge("Large party", kernel.NewMoneyFromFloat(10), true, "server"))

		totals := o.Totals()
		assertMoney(t, "100.00", totals.Subtotal())
		assertMoney(t, "10.00", totals.ServiceChargeTotal())
		assertMoney(t, "15.40", totals.TaxTotal())
		assertMoney(t, "125.40", totals.GrandTotal())
	})

	t.Run("non taxable service charge adds no tax", func(t *testing.T) {
		o := newTestOrder(t)
		mustAddLine(t, o, "Tasting menu", 1, 60, 0.10)

		require.NoError(t, o.AddServiceCharge("Delivery", kernel.NewMoneyFromFloat(10), false, "server"))

		totals := o.Totals()
		assertMoney(t, "6.00", totals.TaxTotal())
		assertMoney(t, "76.00", totals.GrandTotal())
	})

	t.Run("taxable charge with no lines gets zero rate", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddServiceCharge("Corkage", kernel.NewMoneyFromFloat(10), true, "server"))

		totals := o.Totals()
		assertMoney(t, "0.00", totals.TaxTotal())
		assertMoney(t, "10.00", totals.GrandTotal())
	})
}

func TestTotals_LineDiscounts(t *testing.T) {
	t.Run("fixed line discount counts toward discount total", func(t *testing.T) {
		// Subtotal and tax stay on gross line totals; the discount shows
		// up only in the discount total.
		o := newTestOrder(t)
		burger := mustAddLine(t, o, "Burger", 1, 15, 0.10)
		mustAddLine(t, o, "Beer", 1, 8, 0.10)

		require.NoError(t, o.ApplyLineDiscount(burger, order.FixedAmount, decimal.NewFromInt(5), "manager", "loyalty"))

		totals := o.Totals()
		assertMoney(t, "23.00", totals.Subtotal())
		assertMoney(t, "5.00", totals.DiscountTotal())
		assertMoney(t, "2.30", totals.TaxTotal())
		assertMoney(t, "20.30", totals.GrandTotal())
	})

	t.Run("line discount never exceeds the line total", func(t *testing.T) {
		o := newTestOrder(t)
		burger := mustAddLine(t, o, "Burger", 1, 15, 0)

		require.NoError(t, o.ApplyLineDiscount(burger, order.FixedAmount, decimal.NewFromInt(50), "manager", "comp"))

		totals := o.Totals()
		assertMoney(t, "15.00", totals.Subtotal())
		assertMoney(t, "15.00", totals.DiscountTotal())
		assertMoney(t, "0.00", totals.GrandTotal())
	})

	t.Run("capped discount shrinks when quantity drops", func(t *testing.T) {
		o := newTestOrder(t)
		burger := mustAddLine(t, o, "Burger", 2, 15, 0)
		require.NoError(t, o.ApplyLineDiscount(burger, order.FixedAmount, decimal.NewFromInt(20), "manager", "comp"))
		assertMoney(t, "20.00", o.Totals().DiscountTotal())

		qty := 1
		require.NoError(t, o.UpdateLine(burger, &qty, nil, nil))

		assertMoney(t, "15.00", o.Totals().DiscountTotal())
		assertMoney(t, "0.00", o.Totals().GrandTotal())
	})

	t.Run("remove line discount restores the grand total", func(t *testing.T) {
		o := newTestOrder(t)
		burger := mustAddLine(t, o, "Burger", 1, 15, 0)
		require.NoError(t, o.ApplyLineDiscount(burger, order.Percentage, decimal.NewFromInt(20), "manager", "promo"))
		assertMoney(t, "12.00", o.Totals().GrandTotal())

		require.NoError(t, o.RemoveLineDiscount(burger, "manager"))

		assertMoney(t, "15.00", o.Totals().GrandTotal())
		assertMoney(t, "0.00", o.Totals().DiscountTotal())
	})
}

func TestTotals_OrderDiscountStacking(t *testing.T) {
	// A second order discount applies to the already discounted base.
	o := newTestOrder(t)
	mustAddLine(t, o, "Burger", 1, 100, 0)

	require.NoError(t, o.ApplyOrderDiscount("first", order.Percentage, decimal.NewFromInt(10), "manager"))
	require.NoError(t, o.ApplyOrderDiscount("second", order.FixedAmount, decimal.NewFromInt(20), "manager"))

	totals := o.Totals()
	assertMoney(t, "100.00", totals.Subtotal())
	assertMoney(t, "30.00", totals.DiscountTotal())
	assertMoney(t, "70.00", totals.GrandTotal())
}

func TestTotals_DiscountCappedAtSubtotal(t *testing.T) {
	o := newTestOrder(t)
	mustAddLine(t, o, "Burger", 1, 15, 0)

	require.NoError(t, o.ApplyOrderDiscount("comp", order.FixedAmount, decimal.NewFromInt(100), "manager"))

	totals := o.Totals()
	assertMoney(t, "15.00", totals.DiscountTotal())
	assertMoney(t, "0.00", totals.GrandTotal())
}

func TestTotals_GrandTotalNeverNegative(t *testing.T) {
	// A non taxable charge keeps the floor visible: 15.00 subtotal
	// fully comped still owes the 5.00 charge.
	o := newTestOrder(t)
	mustAddLine(t, o, "Burger", 1, 15, 0)
	require.NoError(t, o.AddServiceCharge("Delivery", kernel.NewMoneyFromFloat(5), false, "server"))

	require.NoError(t, o.ApplyOrderDiscount("comp", order.FixedAmount, decimal.NewFromInt(100), "manager"))

	assertMoney(t, "5.00", o.Totals().GrandTotal())
	assert.False(t, o.Totals().GrandTotal().IsNegative())
}

func TestTotals_Rounding(t *testing.T) {
	t.Run("tax rounds half away from zero", func(t *testing.T) {
		// 0.07 tax on 1.50 is 0.105, rounded up to 0.11.
		o := newTestOrder(t)
		mustAddLine(t, o, "Candy", 1, 1.50, 0.07)

		assertMoney(t, "0.11", o.Totals().TaxTotal())
	})

	t.Run("percentage discount rounds to cents", func(t *testing.T) {
		// 15% of 1.10 is 0.165, rounded up to 0.17.
		o := newTestOrder(t)
		mustAddLine(t, o, "Gum", 1, 1.10, 0)

		require.NoError(t, o.ApplyOrderDiscount("promo", order.Percentage, decimal.NewFromInt(15), "manager"))

		assertMoney(t, "0.17", o.Totals().DiscountTotal())
	})
}

func TestTotals_VoidedLinesExcluded(t *testing.T) {
	o := newTestOrder(t)
	burger := mustAddLine(t, o, "Burger", 1, 60, 0.10)
	mustAddLine(t, o, "Wine", 1, 40, 0.20)
	require.NoError(t, o.AddServiceCharge("Large party", kernel.NewMoneyFromFloat(10), true, "server"))

	require.NoError(t, o.VoidLine(burger, "server", "sent back"))

	// With only the 20% line left the weighted rate is 0.20.
	totals := o.Totals()
	assertMoney(t, "40.00", totals.Subtotal())
	assertMoney(t, "10.00", totals.TaxTotal())
}
