package tutor

// Schema is a named JSON Schema used to validate backend responses before
// they are decoded into the data model.
type Schema struct {
	Name       string
	Definition map[string]any
}

var levelProperty = map[string]any{
	"type":    "integer",
	"minimum": 1,
	"maximum": 5,
}

// Trend rows may carry a null level; those rows are dropped downstream
// rather than failing the whole fetch.
var nullableLevelProperty = map[string]any{
	"type":    []any{"integer", "null"},
	"minimum": 1,
	"maximum": 5,
}

// QuestionSchema validates generate and adaptive-generate responses.
var QuestionSchema = &Schema{
	Name: "question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_id": map[string]any{"type": "string", "minLength": 1},
			"question":    map[string]any{"type": "string"},
			"passage":     map[string]any{"type": []any{"string", "null"}},
			"choices": map[string]any{
				"type":                 "object",
				"minProperties":        2,
				"additionalProperties": map[string]any{"type": "string"},
			},
			"correct_answer":   map[string]any{"type": "string", "minLength": 1},
			"solution":         map[string]any{"type": "string"},
			"difficulty_level": levelProperty,
			"adaptive_info": map[string]any{
				"type": []any{"object", "null"},
				"properties": map[string]any{
					"recommended_difficulty": map[string]any{"type": "integer"},
				},
			},
		},
		"required": []any{"question_id", "question", "choices", "correct_answer"},
	},
}

// HintSchema validates hint responses.
var HintSchema = &Schema{
	Name: "hint",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"hint": map[string]any{"type": "string"}},
		"required":   []any{"hint"},
	},
}

// ChatSchema validates chat responses.
var ChatSchema = &Schema{
	Name: "chat",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"tutor_response": map[string]any{"type": "string"}},
		"required":   []any{"tutor_response"},
	},
}

// AbilitySchema validates ability snapshots.
var AbilitySchema = &Schema{
	Name: "ability",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overall_ability":    map[string]any{"type": "number"},
			"questions_answered": map[string]any{"type": "integer", "minimum": 0},
			"topic_abilities": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"ability":      map[string]any{"type": "number"},
						"success_rate": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					},
					"required": []any{"ability"},
				},
			},
		},
		"required": []any{"overall_ability"},
	},
}

// ProgressSchema validates progress history responses.
var ProgressSchema = &Schema{
	Name: "progress",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"trends": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic":            map[string]any{"type": []any{"string", "null"}},
						"correct":          map[string]any{"type": "boolean"},
						"time_taken":       map[string]any{"type": []any{"number", "null"}, "minimum": 0},
						"difficulty_level": nullableLevelProperty,
						"confidence":       nullableLevelProperty,
					},
				},
			},
		},
		"required": []any{"trends"},
	},
}

// ChatHistorySchema validates chat history responses.
var ChatHistorySchema = &Schema{
	Name: "chat-history",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"history": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_message":   map[string]any{"type": "string"},
						"tutor_response": map[string]any{"type": "string"},
					},
					"required": []any{"user_message", "tutor_response"},
				},
			},
		},
		"required": []any{"history"},
	},
}

// LeaderboardSchema validates global and topic leaderboard responses.
var LeaderboardSchema = &Schema{
	Name: "leaderboard",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"leaderboard": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"user_id":      map[string]any{"type": "string"},
						"total_points": map[string]any{"type": "integer", "minimum": 0},
						"accuracy":     map[string]any{"type": "number", "minimum": 0, "maximum": 100},
						"rank":         map[string]any{"type": "integer", "minimum": 1},
					},
					"required": []any{"user_id", "total_points", "rank"},
				},
			},
		},
		"required": []any{"leaderboard"},
	},
}

// RankingSchema validates user ranking responses. Rank and percentile are
// null for users without points.
var RankingSchema = &Schema{
	Name: "ranking",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rank":         map[string]any{"type": []any{"integer", "null"}, "minimum": 1},
			"total_users":  map[string]any{"type": "integer", "minimum": 0},
			"percentile":   map[string]any{"type": []any{"number", "null"}, "minimum": 0, "maximum": 100},
			"total_points": map[string]any{"type": "integer", "minimum": 0},
		},
		"required": []any{"total_users", "total_points"},
	},
}
