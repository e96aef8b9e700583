package world

// Factory is the production site owned by a single agent: one input good,
// one output good, a number of production lines, and a balance.
type Factory struct {
	// Slot is the index of this factory in the world layout.
	Slot int

	// AgentID is the ID of the managing agent.
	AgentID string

	// Level is the production level, zero for raw-material buyers.
	Level int

	// Lines bounds how many units can be produced per step.
	Lines int

	// InitialBalance is the balance at step zero.
	InitialBalance float64

	// CurrentBalance is the running balance.
	CurrentBalance float64

	// Input and Output are the current inventories of the input and output
	// goods.
	Input  int
	Output int

	// ProductionCost is the per-unit conversion cost.
	ProductionCost int

	// Bankrupt is set once the balance sinks past the bankruptcy limit. A
	// bankrupt factory no longer trades or produces.
	Bankrupt bool

	// Counters kept for the world stats.
	Produced  int
	Shipped   int
	Received  int
	NBreaches int
}

// Profit returns the absolute balance change since step zero.
func (f *Factory) Profit() float64 {
	return f.CurrentBalance - f.InitialBalance
}

// RelativeProfit returns the profit normalized by the initial balance. It
// returns the absolute profit when the initial balance is zero.
func (f *Factory) RelativeProfit() float64 {
	if f.InitialBalance == 0 {
		return f.Profit()
	}
	return f.Profit() / f.InitialBalance
}

// Pay deducts amount from the balance. Amounts may drive the balance
// negative; interest and the bankruptcy limit handle the consequences.
func (f *Factory) Pay(amount float64) {
	f.CurrentBalance -= amount
}

// Earn adds amount to the balance.
func (f *Factory) Earn(amount float64) {
	f.CurrentBalance += amount
}

// Produce converts up to the requested quantity of inputs into outputs,
// bounded by the line count and the input inventory, paying the production
// cost. It returns the quantity actually produced.
func (f *Factory) Produce(quantity int) int {
	if f.Bankrupt || quantity <= 0 {
		return 0
	}
	if quantity > f.Lines {
		quantity = f.Lines
	}
	if quantity > f.Input {
		quantity = f.Input
	}
	f.Input -= quantity
	f.Output += quantity
	f.Produced += quantity
	f.Pay(float64(quantity * f.ProductionCost))
	return quantity
}

// Ship removes up to quantity units from the output inventory and returns
// the quantity actually shipped.
func (f *Factory) Ship(quantity int) int {
	if quantity > f.Output {
		quantity = f.Output
	}
	if quantity < 0 {
		quantity = 0
	}
	f.Output -= quantity
	f.Shipped += quantity
	return quantity
}

// Store adds quantity units to the input inventory.
func (f *Factory) Store(quantity int) {
	if quantity <= 0 {
		return
	}
	f.Input += quantity
	f.Received += quantity
}
