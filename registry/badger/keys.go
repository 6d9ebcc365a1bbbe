package badger

// Key prefixes for different data types
const (
	collectionRecordPrefix  = "colrec"
	collectionSessionPrefix = "colses"
)

// makeCollectionKey generates a key for a collection record by name.
func makeCollectionKey(collection string) []byte {
	return []byte(collectionRecordPrefix + ":" + collection)
}

// makeSessionKey generates a composite key for the session index.
// Format: prefix:sessionKey:collection
func makeSessionKey(sessionKey, collection string) []byte {
	prefix := collectionSessionPrefix + ":"
	totalSize := len(prefix) + len(sessionKey) + 1 + len(collection)
	buf := make([]byte, totalSize)
	offset := copy(buf, prefix)
	offset += copy(buf[offset:], sessionKey)
	buf[offset] = ':'
	offset++
	copy(buf[offset:], collection)
	return buf
}

// makePartialSessionKey generates a partial key for session scans.
// Format: prefix:sessionKey:
func makePartialSessionKey(sessionKey string) []byte {
	return []byte(collectionSessionPrefix + ":" + sessionKey + ":")
}
