package domain

// Forecast is the precomputed analytics payload from the forecasting
// service. The storefront only renders it; no computation happens here.
type Forecast struct {
	WeeklySummary   WeeklySummary           `json:"resumen_semanal"`
	Recommendations StaffingRecommendations `json:"recomendaciones_operativas"`
	Trends          map[string]ProductTrend `json:"analisis_completo_tendencias"`
}

type WeeklySummary struct {
	RisingStarProducts []string `json:"productos_estrella_ascenso"`
	AtRiskProducts     []string `json:"productos_en_riesgo"`
	PeakHour           string   `json:"hora_pico_absoluta"`
}

type StaffingRecommendations struct {
	StaffMessage string         `json:"mensaje_staff"`
	HourlyDetail map[string]int `json:"detalle_horas"`
}

type ProductTrend struct {
	Slope  float64 `json:"slope"`
	Status string  `json:"status"`
}

// ProductObservation is the payload posted to the forecasting service to
// register a stock data point.
type ProductObservation struct {
	Product      string `json:"producto"`
	CurrentStock int    `json:"stock_actual"`
	Date         string `json:"fecha"`
}
