package service

import (
	"github.com/chronoverse/evcs/internal/domain"
	"github.com/chronoverse/evcs/pkg/convert"

	"github.com/bytedance/sonic"
	validatorV10 "github.com/go-playground/validator/v10"
)

// encodePayload 校验并序列化类型化负载
func encodePayload[T any](payload *T) ([]byte, error) {
	if payload == nil {
		return nil, &domain.ValidationError{Reason: "payload is required"}
	}
	if err := validate.Struct(payload); err != nil {
		return nil, asValidationError(err)
	}
	data, err := sonic.Marshal(payload)
	if err != nil {
		return nil, &domain.ValidationError{Reason: "payload is not serializable", Cause: err}
	}
	return data, nil
}

// decodePayload 反序列化负载为类型化值
func decodePayload[T any](data []byte) (T, error) {
	var payload T
	if len(data) == 0 {
		return payload, nil
	}
	if err := sonic.Unmarshal(data, &payload); err != nil {
		return payload, &domain.ValidationError{Reason: "stored payload is corrupt", Cause: err}
	}
	return payload, nil
}

// applyUpdates 将按 JSON 字段名的变更集合并进现有负载
// 合并后的负载重新解码为 T 并整体校验，未知字段视为校验错误
func applyUpdates[T any](current []byte, updates map[string]interface{}) ([]byte, error) {
	fields := map[string]interface{}{}
	if len(current) > 0 {
		if err := sonic.Unmarshal(current, &fields); err != nil {
			return nil, &domain.ValidationError{Reason: "stored payload is corrupt", Cause: err}
		}
	}

	known := payloadFieldSet[T]()
	for k, v := range updates {
		if _, ok := known[k]; !ok {
			return nil, &domain.ValidationError{Field: k, Reason: "unknown payload field"}
		}
		fields[k] = v
	}

	merged, err := sonic.Marshal(fields)
	if err != nil {
		return nil, &domain.ValidationError{Reason: "updates are not serializable", Cause: err}
	}

	var typed T
	if err := sonic.Unmarshal(merged, &typed); err != nil {
		return nil, &domain.ValidationError{Reason: "updates do not match payload type", Cause: err}
	}
	if err := validate.Struct(&typed); err != nil {
		return nil, asValidationError(err)
	}
	return sonic.Marshal(&typed)
}

// payloadFieldSet 枚举 T 的 JSON 字段名集合
// 零值序列化会被 omitempty 吞掉字段，必须走类型信息
func payloadFieldSet[T any]() map[string]struct{} {
	names := convert.JSONFieldNames(new(T))
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// asValidationError 将 validator 错误转换为领域校验错误
func asValidationError(err error) error {
	if ves, ok := err.(validatorV10.ValidationErrors); ok && len(ves) > 0 {
		return &domain.ValidationError{
			Field:  ves[0].Field(),
			Reason: "failed on tag " + ves[0].Tag(),
			Cause:  err,
		}
	}
	return &domain.ValidationError{Reason: err.Error(), Cause: err}
}
