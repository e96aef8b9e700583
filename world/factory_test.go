package world

import "testing"

func newTestFactory() *Factory {
	return &Factory{
		Slot:           0,
		Level:          0,
		Lines:          10,
		InitialBalance: 1000,
		CurrentBalance: 1000,
		ProductionCost: 2,
	}
}

func TestFactoryProduce(t *testing.T) {
	f := newTestFactory()
	f.Store(15)

	// Bounded by the line count.
	if got := f.Produce(20); got != 10 {
		t.Errorf("Produce(20) = %d, want 10", got)
	}
	if f.Input != 5 || f.Output != 10 {
		t.Errorf("inventories = %d/%d, want 5/10", f.Input, f.Output)
	}
	if f.CurrentBalance != 1000-20 {
		t.Errorf("balance = %v, want 980", f.CurrentBalance)
	}

	// Bounded by the remaining input.
	if got := f.Produce(10); got != 5 {
		t.Errorf("second Produce = %d, want 5", got)
	}
	if f.Produced != 15 {
		t.Errorf("Produced = %d, want 15", f.Produced)
	}
}

func TestFactoryProduceWhileBankrupt(t *testing.T) {
	f := newTestFactory()
	f.Store(5)
	f.Bankrupt = true
	if got := f.Produce(5); got != 0 {
		t.Errorf("bankrupt factory produced %d units", got)
	}
}

func TestFactoryShip(t *testing.T) {
	f := newTestFactory()
	f.Output = 4
	if got := f.Ship(10); got != 4 {
		t.Errorf("Ship(10) = %d, want 4", got)
	}
	if f.Output != 0 {
		t.Errorf("Output = %d after shipping everything", f.Output)
	}
	if got := f.Ship(-1); got != 0 {
		t.Errorf("Ship(-1) = %d, want 0", got)
	}
}

func TestFactoryProfit(t *testing.T) {
	f := newTestFactory()
	f.Earn(250)
	if got := f.Profit(); got != 250 {
		t.Errorf("Profit = %v, want 250", got)
	}
	if got := f.RelativeProfit(); got != 0.25 {
		t.Errorf("RelativeProfit = %v, want 0.25", got)
	}

	zero := &Factory{InitialBalance: 0, CurrentBalance: 40}
	if got := zero.RelativeProfit(); got != 40 {
		t.Errorf("RelativeProfit with zero initial balance = %v, want absolute 40", got)
	}
}
