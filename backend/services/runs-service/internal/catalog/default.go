package catalog

const (
	colorTeal = "rgb(75, 192, 192)"
	colorRose = "rgb(255, 99, 132)"

	pressureLabel    = "Pressure [bar]"
	temperatureLabel = "Temperature [°C]"
)

func line(color string) Style {
	return Style{"borderColor": color, "fill": false}
}

func sensor(column, label, color string) Series {
	return Series{
		ValueColumn: column,
		TimeColumn:  column + "_time",
		Label:       label,
		Style:       line(color),
	}
}

// Default is the test-stand dashboard layout: injector, tank and chamber
// channels plus total thrust over the six load cells.
func Default() *Catalog {
	return &Catalog{
		Groups: []Group{
			{
				CanvasID:   "injector_pressure",
				YAxisLabel: pressureLabel,
				Series: []Series{
					sensor("N2O_injector_pressure", "N2O Injector Pressure", colorTeal),
					sensor("ethanol_injector_pressure", "Ethanol Injector Pressure", colorRose),
				},
			},
			{
				CanvasID:   "injector_temperature",
				YAxisLabel: temperatureLabel,
				Series: []Series{
					sensor("N2O_injector_temperature", "N2O Injector Temperature", colorTeal),
					sensor("ethanol_injector_temperature", "Ethanol Injector Temperature", colorRose),
				},
			},
			{
				CanvasID:   "tank_temperature",
				YAxisLabel: temperatureLabel,
				Series: []Series{
					sensor("N2O_tank_temperature_top", "N2O Tank Temperature Top", colorTeal),
					sensor("N2O_tank_temperature_bot", "N2O Tank Temperature Bottom", colorRose),
				},
			},
			{
				CanvasID:   "tank_pressure",
				YAxisLabel: pressureLabel,
				Series: []Series{
					sensor("N2O_tank_pressure", "N2O Tank Pressure", colorTeal),
				},
			},
			{
				CanvasID:   "engine_pressure",
				YAxisLabel: pressureLabel,
				Series: []Series{
					sensor("engine_chamber_pressure", "Engine Chamber Pressure", colorTeal),
				},
			},
		},
		Thrust: &Aggregate{
			CanvasID:     "total_thrust",
			Label:        "Total Engine Thrust",
			YAxisLabel:   "Force [N]",
			ValueColumns: []string{"thrust1", "thrust2", "thrust3", "thrust4", "thrust5", "thrust6"},
			TimeColumn:   "thrust2_time",
			Style:        line(colorTeal),
		},
	}
}
