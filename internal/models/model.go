package models

// ForecastModel holds the parameters of the closed-form logistic model.
// It maps directly onto the model file format:
//
//	{"intercept": 0.1, "coefficients": {"sentiment": 0.4, ...}}
//
// Coefficient names the current feature schema does not produce are ignored
// at application time, and features with no coefficient contribute nothing,
// so model files and code can evolve independently.
type ForecastModel struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// ZeroModel returns the safe default written when training input is empty or
// cannot be coerced into numeric feature columns. Forecasting with it falls
// through to the heuristic path.
func ZeroModel() ForecastModel {
	return ForecastModel{Intercept: 0.0, Coefficients: map[string]float64{}}
}

// IsZero reports whether the model carries no fitted parameters.
func (m ForecastModel) IsZero() bool {
	return m.Intercept == 0.0 && len(m.Coefficients) == 0
}
