package advisory

// Rules parameterises the engine. Every threshold is an exclusive lower bound.
type Rules struct {
	HeavyRainMM    float64
	LightRainMM    float64
	TomorrowRainMM float64

	CriticalScore float64
	WarningScore  float64

	// AffectedShare is the fraction of the farm assumed exposed during heavy rain.
	AffectedShare float64

	VetiverPerAcre   float64
	MulchTonsPerAcre float64
	CostPerAcreINR   float64

	// OmitCalmTomorrow drops the tomorrow card when no significant rain is due.
	OmitCalmTomorrow bool
}

func DefaultRules() Rules {
	return Rules{
		HeavyRainMM:      20,
		LightRainMM:      0,
		TomorrowRainMM:   10,
		CriticalScore:    7,
		WarningScore:     5,
		AffectedShare:    0.15,
		VetiverPerAcre:   400,
		MulchTonsPerAcre: 2,
		CostPerAcreINR:   12000,
	}
}
