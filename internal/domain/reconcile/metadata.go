package reconcile

// MergeMetadata unions previously stored provider metadata with newly
// fetched fields. New values win per key; keys present only in the stored
// map are preserved so earlier diagnostic fields survive repeated passes.
func MergeMetadata(stored, fetched map[string]string) map[string]string {
	if len(stored) == 0 && len(fetched) == 0 {
		return nil
	}
	merged := make(map[string]string, len(stored)+len(fetched))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range fetched {
		merged[k] = v
	}
	return merged
}
