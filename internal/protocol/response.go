package protocol

// RootHandle is the handle of the engine's top-level Global object.
const RootHandle = -1

// Engine session states reported by the OnConnected notification.
const (
	// NotificationOnConnected is sent by the engine after every connect.
	NotificationOnConnected = "OnConnected"

	// SessionCreated means the connection started a new engine session.
	SessionCreated = "SESSION_CREATED"

	// SessionAttached means the connection re-attached to an existing engine session.
	SessionAttached = "SESSION_ATTACHED"
)

// Response is an inbound frame: a call response or an engine notification.
type Response struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      *int           `json:"id,omitempty"`
	Method  string         `json:"method,omitempty"`
	Params  any            `json:"params,omitempty"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *ErrorBody     `json:"error,omitempty"`
	Change  []int          `json:"change,omitempty"`
	Close   []int          `json:"close,omitempty"`
}

// ErrorBody is the error member of a failed call response.
type ErrorBody struct {
	Code      int    `json:"code"`
	Parameter string `json:"parameter,omitempty"`
	Message   string `json:"message"`
}

// IsNotification reports whether the frame is an engine notification
// rather than the response to a call.
func (r *Response) IsNotification() bool {
	return r.ID == nil && r.Method != ""
}

// ObjectRef identifies an engine object returned by a call.
type ObjectRef struct {
	Handle      int
	ID          string
	Type        string
	GenericType string
}

// RootRef is the reference used to create the Global object API on open.
var RootRef = ObjectRef{
	Handle:      RootHandle,
	ID:          "Global",
	Type:        "Global",
	GenericType: "Global",
}

// ObjectRefFrom extracts an object reference from a call result.
// It reports false unless v carries both a numeric qHandle and a non-empty qType.
func ObjectRefFrom(v any) (ObjectRef, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return ObjectRef{}, false
	}

	handle, ok := toInt(m["qHandle"])
	if !ok {
		return ObjectRef{}, false
	}

	typ, _ := m["qType"].(string)
	if typ == "" {
		return ObjectRef{}, false
	}

	ref := ObjectRef{Handle: handle, Type: typ}
	ref.ID, _ = m["qGenericId"].(string)
	ref.GenericType, _ = m["qGenericType"].(string)

	return ref, true
}

// IsMissingObject reports whether v is an object reference whose handle or
// type the engine left null, which is how it signals a missing object.
func IsMissingObject(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}

	handle, hasHandle := m["qHandle"]
	typ, hasType := m["qType"]

	if !hasHandle || !hasType {
		return false
	}

	return handle == nil || typ == nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
