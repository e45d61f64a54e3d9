package options

import (
	"fmt"

	"github.com/google/uuid"
)

// StorageType tags the persisted form of an option value. Stores keep it next
// to the payload and the engine rejects restores whose tag does not match the
// option, so a schema drift never silently coerces a value.
type StorageType string

const (
	StorageString   StorageType = "string"
	StorageBool     StorageType = "bool"
	StorageInt64    StorageType = "int64"
	StorageEntity   StorageType = "entity"
	StorageQuery    StorageType = "query"
	StorageGUIDList StorageType = "guid-list"
	StorageInt      StorageType = "int"
	StorageFloat    StorageType = "float"
	StorageChoice   StorageType = "choice"
	StorageDate     StorageType = "date"
)

func storageTypeOf[T any]() StorageType {
	var zero T
	switch any(zero).(type) {
	case string:
		return StorageString
	case bool:
		return StorageBool
	case int64:
		return StorageInt64
	case int:
		return StorageInt
	case float64:
		return StorageFloat
	case EntityRef:
		return StorageEntity
	case QueryRef:
		return StorageQuery
	case []uuid.UUID:
		return StorageGUIDList
	}
	return StorageType(fmt.Sprintf("%T", zero))
}
