package loader

import "agebulk/graphdata"

// partition splits records into batches of at most size, preserving order.
// An empty input yields zero batches, never a single empty one.
func partition(records []graphdata.Record, size int) [][]graphdata.Record {
	if len(records) == 0 {
		return nil
	}
	var batches [][]graphdata.Record
	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}
	return batches
}

// toMaps converts a batch of Records into []map[string]any for JSON staging.
func toMaps(batch []graphdata.Record) []map[string]any {
	out := make([]map[string]any, len(batch))
	for i, r := range batch {
		out[i] = map[string]any(r)
	}
	return out
}
