package dto

// CashCountDTO — фиксированный набор из десяти номиналов.
// Никаких динамических ключей: неизвестные поля отбрасываются при анбиндинге,
// каждый счётчик — неотрицательное целое.
type CashCountDTO struct {
	Ones         int     `json:"ones" validate:"gte=0"`
	Fives        int     `json:"fives" validate:"gte=0"`
	Tens         int     `json:"tens" validate:"gte=0"`
	Twenties     int     `json:"twenties" validate:"gte=0"`
	Forties      int     `json:"forties" validate:"gte=0"`
	Fifties      int     `json:"fifties" validate:"gte=0"`
	Hundreds     int     `json:"hundreds" validate:"gte=0"`
	TwoHundreds  int     `json:"twoHundreds" validate:"gte=0"`
	FiveHundreds int     `json:"fiveHundreds" validate:"gte=0"`
	Thousands    int     `json:"thousands" validate:"gte=0"`
	SealNumber   *string `json:"sealNumber"`
}

// Total — взвешенная сумма по фиксированным номиналам.
func (c CashCountDTO) Total() int64 {
	return int64(c.Ones)*1 +
		int64(c.Fives)*5 +
		int64(c.Tens)*10 +
		int64(c.Twenties)*20 +
		int64(c.Forties)*40 +
		int64(c.Fifties)*50 +
		int64(c.Hundreds)*100 +
		int64(c.TwoHundreds)*200 +
		int64(c.FiveHundreds)*500 +
		int64(c.Thousands)*1000
}

type CashCountSummaryDTO struct {
	ID          uint64 `json:"id"`
	TotalAmount int64  `json:"totalAmount"`
}
