// Package vacancy defines the opaque job-posting records moved between the
// listing fetcher and the document store.
package vacancy

// Record is one job posting exactly as the listing endpoint returned it.
// Keys and values are never interpreted.
type Record map[string]any

// Collection is an ordered sequence of records.
type Collection []Record

// Len returns the number of records in the collection.
func (c Collection) Len() int {
	return len(c)
}

// NonNil returns c, or an empty collection when c is nil, so that it
// serialises as [] rather than null.
func (c Collection) NonNil() Collection {
	if c == nil {
		return Collection{}
	}
	return c
}
