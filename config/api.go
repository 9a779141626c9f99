package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public paths (catalog reads are open, import endpoints stay behind
	// auth). GraphQL is mounted outside the guarded group and needs no entry.
	return []string{"/api/products", "/api/products/:id"}
}
