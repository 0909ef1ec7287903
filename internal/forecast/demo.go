package forecast

import "github.com/GilbertoM0/front-pagina-tienda/internal/domain"

// Demo is the canned analysis shown when the backend cannot be read.
func Demo() domain.Forecast {
	return domain.Forecast{
		WeeklySummary: domain.WeeklySummary{
			RisingStarProducts: []string{
				"Sugarcane juice",
				"Frankie",
				"Cold coffee",
			},
			AtRiskProducts: []string{
				"Aalopuri",
				"Panipuri",
				"Vadapav",
				"Sandwich",
			},
			PeakHour: "Night",
		},
		Recommendations: domain.StaffingRecommendations{
			StaffMessage: "Refuerza personal durante: Night.",
			HourlyDetail: map[string]int{
				"Night":     725,
				"Evening":   708,
				"Midnight":  654,
				"Morning":   626,
				"Afternoon": 558,
			},
		},
		Trends: map[string]domain.ProductTrend{
			"Aalopuri":        {Slope: -5.6, Status: "Bajando 📉"},
			"Sugarcane juice": {Slope: 1.0, Status: "Subiendo 🔥"},
			"Panipuri":        {Slope: -1.0, Status: "Bajando 📉"},
			"Frankie":         {Slope: 3.1, Status: "Subiendo 🔥"},
			"Vadapav":         {Slope: -0.4, Status: "Bajando 📉"},
			"Cold coffee":     {Slope: 1.2, Status: "Subiendo 🔥"},
			"Sandwich":        {Slope: -3.3, Status: "Bajando 📉"},
		},
	}
}
