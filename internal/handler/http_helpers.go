package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// 客户端提交的这些字段由服务端维护，解码前直接丢弃。
var serverManagedFields = []string{"id", "created_at", "updated_at"}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// decodeStrict 严格解码请求体：未知字段直接报错。
func decodeStrict(body io.Reader, dst interface{}) error {
	_, err := decodePayload(body, dst, false)
	return err
}

// decodeOrdered 与 decodeStrict 相同，但会把 order_index 单独取出；
// 请求体未携带 order_index 时返回 nil。
func decodeOrdered(body io.Reader, dst interface{}) (*int, error) {
	return decodePayload(body, dst, true)
}

func decodePayload(body io.Reader, dst interface{}, withOrder bool) (*int, error) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("request body is required")
		}
		return nil, errors.New("request body must be a JSON object")
	}
	for _, key := range serverManagedFields {
		delete(fields, key)
	}

	var order *int
	if withOrder {
		if raw, ok := fields["order_index"]; ok {
			delete(fields, "order_index")
			if string(raw) != "null" {
				var index int
				if err := json.Unmarshal(raw, &index); err != nil {
					return nil, errors.New("order_index must be an integer")
				}
				order = &index
			}
		}
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return nil, describeDecodeError(err)
	}
	return order, nil
}

func describeDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%s has the wrong type", typeErr.Field)
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "json: unknown field ") {
		return fmt.Errorf("unknown field %s", strings.TrimPrefix(msg, "json: unknown field "))
	}
	return errors.New("invalid request body")
}
