package prediction

import "github.com/sashabaranov/go-openai/jsonschema"

const (
	FunctionName        = "generateAnalysis"
	FunctionDescription = "You are an expert sports analyst, with insights sharper than those of betting bookmakers. " +
		"Before analyzing the upcoming football match and providing predictions, gather the most recent information on team news, " +
		"injuries, and suspensions, also look for opportunities and safer bets in addition to the given data."
)

// Schema returns the strict output contract for the model function call.
// Every object is closed and every declared key is required.
func Schema() jsonschema.Definition {
	score := closedObject(map[string]jsonschema.Definition{
		"home": {Type: jsonschema.Number},
		"away": {Type: jsonschema.Number},
	})
	keyPlayer := closedObject(map[string]jsonschema.Definition{
		"name":          {Type: jsonschema.String},
		"shots":         {Type: jsonschema.Number},
		"shotsOnTarget": {Type: jsonschema.Number},
		"assists":       {Type: jsonschema.Number},
	})
	stringList := jsonschema.Definition{Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}}

	return closedObject(map[string]jsonschema.Definition{
		"homeTeam": {Type: jsonschema.String},
		"awayTeam": {Type: jsonschema.String},
		"expectedOutcome": closedObject(map[string]jsonschema.Definition{
			"goals":   score,
			"corners": score,
			"goalsByPeriod": closedObject(map[string]jsonschema.Definition{
				"firstHalf":  score,
				"secondHalf": score,
				"fullTime":   score,
			}),
		}),
		"keyPlayers": closedObject(map[string]jsonschema.Definition{
			"home": {Type: jsonschema.Array, Items: &keyPlayer},
			"away": {Type: jsonschema.Array, Items: &keyPlayer},
		}),
		"sameGameParlaySuggestions": stringList,
		"additionalPredictions": closedObject(map[string]jsonschema.Definition{
			"totalGoalsOverUnder": closedObject(map[string]jsonschema.Definition{
				"firstHalf":  {Type: jsonschema.String},
				"secondHalf": {Type: jsonschema.String},
			}),
			"mostProbableSingleBetOutcome": {Type: jsonschema.String},
		}),
		"analysis":    {Type: jsonschema.String},
		"keyFactors":  stringList,
		"bettingTips": stringList,
	})
}

func closedObject(props map[string]jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             sortedKeys(props),
		AdditionalProperties: false,
	}
}
