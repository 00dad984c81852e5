package tablestore

import "context"

// Client defines the record store operations the rest of the application
// uses. The store is a generic table-oriented REST API without transactions;
// pagination is handled transparently by List.
type Client interface {
	List(ctx context.Context, table string, opts ListOptions) ([]Record, error)
	Get(ctx context.Context, table, id string) (Record, error)
	Create(ctx context.Context, table string, fields []Fields) ([]Record, error)
	Update(ctx context.Context, table string, updates []RecordUpdate) ([]Record, error)
	// Schema returns the logical-to-physical field mapping for a table,
	// fetched once and cached.
	Schema(ctx context.Context, table string) (*FieldMap, error)
}
