package tablestore

// Record is one row of a table, as returned by the record store.
type Record struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// RecordUpdate carries the fields to patch on an existing record.
type RecordUpdate struct {
	ID     string `json:"id"`
	Fields Fields `json:"fields"`
}

// SortField describes one sort criterion for a list call.
type SortField struct {
	Field string
	Desc  bool
}

// ListOptions narrows a list call. The zero value lists the whole table.
type ListOptions struct {
	// Filter is a formula in the store's filter syntax, see Eq/And/Or.
	Filter string
	Sort   []SortField
	// MaxRows caps the number of records returned; 0 means no cap.
	MaxRows int
}

// listResponse is the wire shape of a page of records.
type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// recordsEnvelope is the wire shape of create/update requests and responses.
type recordsEnvelope struct {
	Records []Record `json:"records"`
}

type updateEnvelope struct {
	Records []RecordUpdate `json:"records"`
}

// tableMeta is the wire shape of the schema metadata endpoint.
type tableMeta struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Fields []fieldMeta `json:"fields"`
}

type fieldMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type schemaResponse struct {
	Tables []tableMeta `json:"tables"`
}
