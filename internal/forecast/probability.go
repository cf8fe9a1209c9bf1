package forecast

import (
	"math"

	"github.com/yourusername/gov-forecast/internal/models"
)

// Heuristic fallback coefficients, applied on top of the historical approval
// baseline when no trained model is available.
const (
	heurSentiment     = 0.18
	heurSourceAvg     = 0.12
	heurTrending      = 0.10
	heurCommentTrend  = 0.15
	heurTurnoutTrend  = 0.08
	heurTurnout       = 0.06
	heurEngagement    = 0.07
	heurLength        = 0.03
	heurLengthScale   = 500.0
	logOddsEpsilon    = 1e-6
	trainRidgeEpsilon = 1e-9
)

// Trained feature order also defines the design matrix columns.
var trainFeatureNames = []string{
	"approval_rate",
	"turnout",
	"sentiment",
	"trending",
	"source_sentiment_avg",
	"comment_turnout_trend",
}

// Train fits the logistic model with a single closed-form least-squares
// solve. Outcomes are clipped away from {0,1} before the log-odds transform
// so the target stays finite, then the normal equations are solved with a
// tiny ridge term to keep degenerate datasets (constant columns, fewer rows
// than features) from blowing up. An empty dataset yields the zero model.
func Train(records []models.HistoricalRecord) models.ForecastModel {
	if len(records) == 0 {
		return models.ZeroModel()
	}

	n := len(records)
	k := len(trainFeatureNames) + 1 // intercept column

	design := make([][]float64, n)
	target := make([]float64, n)
	for i, rec := range records {
		row := make([]float64, k)
		row[0] = 1.0
		row[1] = rec.ApprovalRate()
		row[2] = rec.Turnout()
		row[3] = rec.Sentiment
		row[4] = rec.Trending
		row[5] = rec.SourceSentimentAvg
		row[6] = rec.CommentTurnoutTrend
		design[i] = row

		y := 0.0
		if rec.Executed() {
			y = 1.0
		}
		y = clamp(y, logOddsEpsilon, 1.0-logOddsEpsilon)
		target[i] = math.Log(y / (1.0 - y))
	}

	beta, ok := solveLeastSquares(design, target, k)
	if !ok {
		return models.ZeroModel()
	}

	coeffs := make(map[string]float64, len(trainFeatureNames))
	for i, name := range trainFeatureNames {
		coeffs[name] = beta[i+1]
	}
	return models.ForecastModel{Intercept: beta[0], Coefficients: coeffs}
}

// Apply computes sigmoid(intercept + Σ coeff·feature) over the features the
// model knows about. Unknown coefficient names are skipped, so old models
// keep working against newer feature schemas and vice versa.
func Apply(model models.ForecastModel, fv models.FeatureVector) float64 {
	z := model.Intercept
	named := fv.Named()
	for name, coeff := range model.Coefficients {
		if value, ok := named[name]; ok {
			z += coeff * value
		}
	}
	return sigmoid(z)
}

// HeuristicProbability is the model-free path: the historical approval
// baseline shifted by a fixed linear combination of the context signals,
// clamped to [0,1].
func HeuristicProbability(fv models.FeatureVector) float64 {
	p := clamp01(fv.ApprovalRate)
	p += heurSentiment*fv.Sentiment +
		heurSourceAvg*fv.SourceSentimentAvg +
		heurTrending*fv.Trending +
		heurCommentTrend*fv.CommentTurnoutTrend +
		heurTurnoutTrend*fv.TurnoutTrend +
		heurTurnout*(fv.Turnout-0.5) +
		heurEngagement*(fv.EngagementWeight-0.5) +
		heurLength*(fv.ProposalLength/heurLengthScale)
	return clamp01(p)
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// solveLeastSquares solves X·β ≈ t through the ridge-stabilized normal
// equations (XᵀX + εI)β = Xᵀt with Gaussian elimination and partial
// pivoting. k is the column count of X.
func solveLeastSquares(x [][]float64, t []float64, k int) ([]float64, bool) {
	// Build XᵀX and Xᵀt.
	xtx := make([][]float64, k)
	for i := range xtx {
		xtx[i] = make([]float64, k+1)
	}
	for r := range x {
		for i := 0; i < k; i++ {
			for j := 0; j < k; j++ {
				xtx[i][j] += x[r][i] * x[r][j]
			}
			xtx[i][k] += x[r][i] * t[r]
		}
	}
	for i := 0; i < k; i++ {
		xtx[i][i] += trainRidgeEpsilon
	}

	// Forward elimination with partial pivoting.
	for col := 0; col < k; col++ {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(xtx[r][col]) > math.Abs(xtx[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(xtx[pivot][col]) < trainRidgeEpsilon {
			return nil, false
		}
		xtx[col], xtx[pivot] = xtx[pivot], xtx[col]

		for r := col + 1; r < k; r++ {
			factor := xtx[r][col] / xtx[col][col]
			for c := col; c <= k; c++ {
				xtx[r][c] -= factor * xtx[col][c]
			}
		}
	}

	// Back substitution.
	beta := make([]float64, k)
	for i := k - 1; i >= 0; i-- {
		sum := xtx[i][k]
		for j := i + 1; j < k; j++ {
			sum -= xtx[i][j] * beta[j]
		}
		beta[i] = sum / xtx[i][i]
		if math.IsNaN(beta[i]) || math.IsInf(beta[i], 0) {
			return nil, false
		}
	}
	return beta, true
}
