// Package api defines the shipmarket.v1.Marketplace gRPC service: request and
// response messages, the service descriptor and a typed client. Messages are
// plain Go structs carried by a JSON codec registered under the "json"
// content-subtype.
package api

import (
	"encoding/json"

	"github.com/dmitrijs2005/shipmarket/internal/common"
	"google.golang.org/grpc/encoding"
)

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return common.ContentSubtype
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
