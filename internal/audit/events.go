package audit

import "encoding/json"

// Event names for the streaming audit protocol.
const (
	EventProgress = "progress"
	EventResult   = "result"
	EventComplete = "complete"
	EventError    = "error"
)

// ProgressEvent is emitted before each pipeline stage and each audit cell.
type ProgressEvent struct {
	Stage        string `json:"stage"`
	Message      string `json:"message"`
	Model        string `json:"model,omitempty"`
	ModelNumber  int    `json:"model_number,omitempty"`
	TotalModels  int    `json:"total_models,omitempty"`
	RuleNumber   int    `json:"rule_number,omitempty"`
	TotalRules   int    `json:"total_rules,omitempty"`
	RuleCategory string `json:"rule_category,omitempty"`
	TotalAudits  int    `json:"total_audits,omitempty"`
}

// ResultEvent is emitted after each audit cell completes.
type ResultEvent struct {
	Model        string  `json:"model"`
	RuleID       string  `json:"rule_id"`
	RuleCategory string  `json:"rule_category"`
	RuleQuestion string  `json:"rule_question"`
	Status       string  `json:"status"`
	Completed    int     `json:"completed"`
	Total        int     `json:"total"`
	Progress     float64 `json:"progress"`
}

// CompleteEvent terminates a successful stream and carries the persisted
// result identifier.
type CompleteEvent struct {
	AuditID     string `json:"audit_id"`
	PolicyName  string `json:"policy_name"`
	TotalRules  int    `json:"total_rules"`
	TotalModels int    `json:"total_models"`
	TotalAudits int    `json:"total_audits"`
	Message     string `json:"message"`
}

// ErrorEvent terminates a failed stream.
type ErrorEvent struct {
	Error string `json:"error"`
}

// Event is one streamed audit event. Data is one of the typed event
// payloads above, matching Name.
type Event struct {
	Name string
	Data any
}

// envelope is the wire form published to pub/sub subscribers.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Marshal encodes the event in the {event, data} wire form.
func (e Event) Marshal() ([]byte, error) {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Event: e.Name, Data: data})
}
