package builder

import (
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/temirov/spooler/internal/random"
)

const (
	skipTagName  = "builder"
	skipTagValue = "-"

	minStringLength     = 8
	maxStringLength     = 16
	minPayloadLength    = 16
	maxPayloadLength    = 256
	minCollectionLength = 1
	maxCollectionLength = 3
	maxRandomInteger    = 1000
)

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

type valueFiller struct {
	generator       *random.Generator
	maxDepth        int
	fillCollections bool
}

func (filler valueFiller) fillRoot(target any) {
	value := reflect.ValueOf(target)
	if value.Kind() != reflect.Pointer || value.IsNil() {
		return
	}
	filler.fill(value.Elem(), 0)
}

func (filler valueFiller) fill(value reflect.Value, depth int) {
	if !value.CanSet() {
		return
	}

	switch value.Type() {
	case timeType:
		value.Set(reflect.ValueOf(filler.generator.Time()))
		return
	case uuidType:
		value.Set(reflect.ValueOf(filler.generator.UUID()))
		return
	}

	switch value.Kind() {
	case reflect.String:
		value.SetString(filler.generator.String(minStringLength, maxStringLength))
	case reflect.Bool:
		value.SetBool(filler.generator.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value.SetInt(filler.generator.Int64(1, min(maxRandomInteger, maxSignedFor(value.Type()))))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		value.SetUint(filler.generator.Uint64(1, min(maxRandomInteger, maxUnsignedFor(value.Type()))))
	case reflect.Float32, reflect.Float64:
		value.SetFloat(filler.generator.Float64(0, maxRandomInteger))
	case reflect.Pointer:
		if depth >= filler.maxDepth {
			return
		}
		element := reflect.New(value.Type().Elem())
		filler.fill(element.Elem(), depth)
		value.Set(element)
	case reflect.Struct:
		if depth >= filler.maxDepth {
			return
		}
		filler.fillStruct(value, depth)
	case reflect.Array:
		for index := 0; index < value.Len(); index++ {
			filler.fill(value.Index(index), depth)
		}
	case reflect.Slice:
		filler.fillSlice(value, depth)
	case reflect.Map:
		filler.fillMap(value, depth)
	}
}

func (filler valueFiller) fillStruct(value reflect.Value, depth int) {
	structType := value.Type()
	for index := 0; index < structType.NumField(); index++ {
		field := structType.Field(index)
		if !field.IsExported() || field.Tag.Get(skipTagName) == skipTagValue {
			continue
		}
		filler.fill(value.Field(index), depth+1)
	}
}

func (filler valueFiller) fillSlice(value reflect.Value, depth int) {
	if value.Type().Elem().Kind() == reflect.Uint8 {
		payload := filler.generator.Bytes(minPayloadLength, maxPayloadLength)
		slice := reflect.MakeSlice(value.Type(), len(payload), len(payload))
		reflect.Copy(slice, reflect.ValueOf(payload))
		value.Set(slice)
		return
	}
	if !filler.fillCollections || depth >= filler.maxDepth {
		return
	}
	length := filler.generator.Int(minCollectionLength, maxCollectionLength)
	slice := reflect.MakeSlice(value.Type(), length, length)
	for index := 0; index < length; index++ {
		filler.fill(slice.Index(index), depth)
	}
	value.Set(slice)
}

func (filler valueFiller) fillMap(value reflect.Value, depth int) {
	if !filler.fillCollections || depth >= filler.maxDepth {
		return
	}
	mapType := value.Type()
	length := filler.generator.Int(minCollectionLength, maxCollectionLength)
	filled := reflect.MakeMapWithSize(mapType, length)
	for range length {
		key := reflect.New(mapType.Key()).Elem()
		element := reflect.New(mapType.Elem()).Elem()
		filler.fill(key, depth)
		filler.fill(element, depth)
		filled.SetMapIndex(key, element)
	}
	value.Set(filled)
}

func maxSignedFor(valueType reflect.Type) int64 {
	return int64(1)<<(valueType.Bits()-1) - 1
}

func maxUnsignedFor(valueType reflect.Type) uint64 {
	if valueType.Bits() == 64 {
		return math.MaxUint64
	}
	return uint64(1)<<valueType.Bits() - 1
}
