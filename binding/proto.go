// Copyright 2025 The Treeline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binding

import (
	"reflect"

	"google.golang.org/protobuf/proto"
)

// protoCodec decodes application/x-protobuf bodies with
// google.golang.org/protobuf.
type protoCodec struct{}

// Proto returns the codec for application/x-protobuf bodies.
//
// The target must be a generated protobuf message. Generated messages are
// pointer types, so the generic decode helpers hand the codec a pointer to
// that pointer; the codec allocates the message itself when the inner
// pointer is nil.
//
// Example:
//
//	r.POST("/users", router.Body(binding.Proto(), func(c *router.Context, u *userpb.User) error {
//	    return c.JSON(http.StatusCreated, map[string]string{"id": u.GetId()})
//	}))
func Proto() Codec {
	return protoCodec{}
}

func (protoCodec) MediaType() string {
	return "application/x-protobuf"
}

func (protoCodec) Unmarshal(data []byte, v any) error {
	if msg, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, msg)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotProtoMessage
	}
	elem := rv.Elem()
	if elem.Kind() != reflect.Pointer {
		return ErrNotProtoMessage
	}
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	msg, ok := elem.Interface().(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}
	return proto.Unmarshal(data, msg)
}
