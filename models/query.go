package models

// AttributeType enum for DynamoDB key attribute types
type AttributeType int

const (
	StringType AttributeType = iota
	NumberType
	BinaryType
)

// QueryConfig holds the configuration for a DynamoDB lookup, either by
// primary key or through a secondary index.
type QueryConfig struct {
	TableName string
	IndexName string // empty for primary key lookups
	KeyName   string
	KeyValue  string
	KeyType   AttributeType
}
