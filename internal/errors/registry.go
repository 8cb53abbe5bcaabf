package errors

// Error codes referenced throughout the codebase.
const (
	CodeLockContract     = "N001"
	CodeBacklinkMissing  = "N002"
	CodeRouteMiss        = "N003"
	CodeProtocolFrame    = "N004"
	CodeConfigInvalid    = "N005"
	CodeProtocolSequence = "N006"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeLockContract: {
		Category: CategoryContract,
		Message:  "Navigation lock acquired while an unrelated frozen snapshot exists",
		Detail:   "A lock acquisition at depth zero found a frozen location snapshot left behind by another sequence. Two uncoordinated owners are locking the same controller; coordinate them under a single lock acquisition.",
		DocURL:   "https://backtrail.dev/docs/errors/N001",
	},
	CodeBacklinkMissing: {
		Category: CategoryIntegrity,
		Message:  "Entry produced by a non-pop mutation carries no backlink",
		Detail:   "Every push-created entry must reference its immediate predecessor, and every replace must carry an existing backlink forward. This fault is advisory; navigation continues.",
		DocURL:   "https://backtrail.dev/docs/errors/N002",
	},
	CodeRouteMiss: {
		Category: CategoryRouting,
		Message:  "No route matched the location",
		Detail:   "The route table has no entry whose pattern matches this pathname, so nothing renders. Register a catch-all route (\"*rest\") to guarantee a match.",
		DocURL:   "https://backtrail.dev/docs/errors/N003",
	},
	CodeProtocolFrame: {
		Category: CategoryProtocol,
		Message:  "Malformed bridge frame",
		Detail:   "A WebSocket frame could not be decoded as a bridge message. The client and server protocol versions may be out of sync.",
		DocURL:   "https://backtrail.dev/docs/errors/N004",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "backtrail.json could not be parsed or contains out-of-range values.",
		DocURL:   "https://backtrail.dev/docs/errors/N005",
	},
	CodeProtocolSequence: {
		Category: CategoryProtocol,
		Message:  "Bridge update out of sequence",
		Detail:   "A client update acknowledged a command sequence the server never issued.",
		DocURL:   "https://backtrail.dev/docs/errors/N006",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
