package audit

const (
	DefaultEventKind  = "foundry_query"
	DefaultDatasetURN = "urn:palantir:foundry:dataset:unspecified"
)

// DefaultCorrelationPath is where upstream results carry their request id.
var DefaultCorrelationPath = []string{"extensions", "requestId"}

// Entry is one audit log record. RequestID is encoded as null when the
// upstream result did not carry one.
type Entry struct {
	Timestamp  string  `json:"ts"`
	Event      string  `json:"event"`
	RequestID  *string `json:"foundry_request_id"`
	DatasetURN string  `json:"dataset_urn"`
}

// Envelope is the signed response handed back to callers.
type Envelope struct {
	Data           any     `json:"data"`
	SignedResponse string  `json:"signed_response"`
	AuditLog       []Entry `json:"audit_log"`
}

type Config struct {
	EventKind       string
	DatasetURN      string
	CorrelationPath []string
}

func (c Config) withDefaults() Config {
	if c.EventKind == "" {
		c.EventKind = DefaultEventKind
	}
	if c.DatasetURN == "" {
		c.DatasetURN = DefaultDatasetURN
	}
	if len(c.CorrelationPath) == 0 {
		c.CorrelationPath = DefaultCorrelationPath
	}
	return c
}
