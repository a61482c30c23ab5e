package utils

// AttachImageURL resolves a stored image path to an absolute URL by
// prefixing the configured base URL. Applied at the serialization boundary
// only; stored records keep the bare path.
func AttachImageURL(baseURL, path string) string {
	if path == "" {
		return ""
	}
	return baseURL + path
}
