package strategy

func init() {
	Register(Crossover{})
	Register(MeanReversion{})
	Register(FibRetrace{})
	Register(LiquiditySweep{})
	Register(TrendFilter{})
}
