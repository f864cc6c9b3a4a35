package gateway

import (
	"context"
	"encoding/json"
)

// Envelope is the status/message/data convention most endpoints follow.
// Data is typed per endpoint; Raw keeps the body exactly as received.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Message Text   `json:"message"`
	Token   string `json:"token,omitempty"`
	Data    T      `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// Call runs d.Do and decodes the body into an Envelope[T]. Only data is
// decoded strictly: a body that is not an object, or whose data does not
// fit T, is a transport-level *Error carrying the raw body in Data. Status,
// message and token of unexpected types read as zero values.
func Call[T any](ctx context.Context, d Doer, endpoint string, spec RequestSpec) (*Envelope[T], error) {
	raw, err := d.Do(ctx, endpoint, spec)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &Error{Message: "unexpected response shape", Data: raw, Err: err}
	}

	env := &Envelope[T]{Raw: raw}
	if v, ok := fields["data"]; ok {
		if err := json.Unmarshal(v, &env.Data); err != nil {
			return nil, &Error{Message: "unexpected response shape", Data: raw, Err: err}
		}
	}
	if v, ok := fields["status"]; ok {
		if err := json.Unmarshal(v, &env.Status); err != nil {
			env.Status = false
		}
	}
	message, token := inspect(raw)
	env.Message, env.Token = Text(message), token
	return env, nil
}
