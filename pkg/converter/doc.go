// Package converter provides value converters built on GORM's serializer
// pipeline.
//
// A converter transforms a field value on its way to and from the database
// column. The conversion machinery itself (when serializers run, how column
// values are scanned) is GORM's; this package contributes converters and a
// registration helper:
//
//   - gzipjson: marshals the field to JSON and gzips it, for large document
//     columns stored as bytea
//   - trimstring: trims surrounding whitespace on write and read
//   - unixtime: stores time.Time fields as epoch seconds in an integer column,
//     normalized to UTC on read
//
// Register the converters once at startup, then select them per field with
// struct tags:
//
//	converter.RegisterDefaults()
//
//	type Report struct {
//		ID      uint
//		Payload ReportPayload `gorm:"serializer:gzipjson"`
//		Title   string        `gorm:"serializer:trimstring"`
//	}
package converter
