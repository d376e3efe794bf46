package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCashCountTotal(t *testing.T) {
	t.Run("пустой пересчёт", func(t *testing.T) {
		assert.EqualValues(t, 0, CashCountDTO{}.Total())
	})

	t.Run("по одной купюре каждого номинала", func(t *testing.T) {
		cc := CashCountDTO{
			Ones: 1, Fives: 1, Tens: 1, Twenties: 1, Forties: 1,
			Fifties: 1, Hundreds: 1, TwoHundreds: 1, FiveHundreds: 1, Thousands: 1,
		}
		assert.EqualValues(t, 1+5+10+20+40+50+100+200+500+1000, cc.Total())
	})

	t.Run("смешанный пересчёт", func(t *testing.T) {
		cc := CashCountDTO{Tens: 1, Twenties: 1, Hundreds: 1}
		assert.EqualValues(t, 130, cc.Total())
	})

	t.Run("большие количества не переполняются", func(t *testing.T) {
		cc := CashCountDTO{Thousands: 2_000_000_000}
		assert.EqualValues(t, int64(2_000_000_000)*1000, cc.Total())
	})
}
