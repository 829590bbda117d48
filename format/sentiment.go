package format

// DefaultSentimentPrefix is the column prefix for sentiment analysis output.
const DefaultSentimentPrefix = "sentiment_api"

// Scale is the policy controlling how a continuous sentiment score is
// bucketed or transformed.
type Scale string

const (
	ScaleBinary           Scale = "binary"
	ScaleTernary          Scale = "ternary"
	ScaleQuinary          Scale = "quinary"
	ScaleRescaleZeroToOne Scale = "rescale_zero_to_one"
)

// ScaleScore maps a sentiment score to a categorical label or a rescaled
// float, depending on the scale. Unknown scales pass the score through
// unchanged. Bucket boundaries are strict: a score of exactly -0.33 is
// "neutral" under the ternary scale, not "negative".
func ScaleScore(score float64, scale Scale) any {
	switch scale {
	case ScaleBinary:
		if score < 0 {
			return "negative"
		}
		return "positive"
	case ScaleTernary:
		switch {
		case score < -0.33:
			return "negative"
		case score > 0.33:
			return "positive"
		default:
			return "neutral"
		}
	case ScaleQuinary:
		switch {
		case score < -0.66:
			return "highly negative"
		case score < -0.33:
			return "negative"
		case score < 0.33:
			return "neutral"
		case score < 0.66:
			return "positive"
		default:
			return "highly positive"
		}
	case ScaleRescaleZeroToOne:
		return (score + 1) / 2
	default:
		return score
	}
}

// SentimentFormatter reshapes a raw sentiment analysis response into three
// columns: numeric score, numeric magnitude, and the score rescaled per the
// configured Scale.
type SentimentFormatter struct {
	// ResponseColumn is the existing column holding the raw JSON response.
	ResponseColumn string
	// Scale defaults to ternary.
	Scale Scale
	// ColumnPrefix defaults to DefaultSentimentPrefix.
	ColumnPrefix  string
	ErrorHandling ErrorHandling
}

// Format augments the row with sentiment columns and returns it. Missing
// score or magnitude fields map to a nil sentinel, never an error.
func (f SentimentFormatter) Format(row Row) (Row, error) {
	raw, _ := row[f.ResponseColumn].(string)
	response, err := SafeJSONLoads(raw, f.ErrorHandling)
	if err != nil {
		return row, err
	}

	prefix := f.ColumnPrefix
	if prefix == "" {
		prefix = DefaultSentimentPrefix
	}
	scale := f.Scale
	if scale == "" {
		scale = ScaleTernary
	}

	scoreColumn := GenerateUnique("score", row, prefix)
	scaledColumn := GenerateUnique("score_scaled", row, prefix)
	magnitudeColumn := GenerateUnique("magnitude", row, prefix)

	sentiment, _ := response["documentSentiment"].(map[string]any)
	if score, ok := asFloat(sentiment["score"]); ok {
		row[scoreColumn] = score
		row[scaledColumn] = ScaleScore(score, scale)
	} else {
		row[scoreColumn] = nil
		row[scaledColumn] = nil
	}
	if magnitude, ok := asFloat(sentiment["magnitude"]); ok {
		row[magnitudeColumn] = magnitude
	} else {
		row[magnitudeColumn] = nil
	}
	return row, nil
}
